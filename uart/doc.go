// Package uart implements a bit-accurate, tick-driven model of a classic
// asynchronous serial (UART) point-to-point link: a transmit engine that
// frames a byte as start bit + 8 data bits (LSB first) + stop bit, and a
// receive engine that recovers, validates, and decodes that frame from an
// asynchronously-arriving bit stream.
//
// # Execution Model
//
// Both engines are finite-state machines advanced exactly once per simulated
// clock edge via their Tick methods. There are no goroutines, timers, or
// blocking calls inside the engines; suspension is modeled as remaining in
// the current state until a tick counter reaches its target. A test harness
// or embedded retarget drives the engines in lock step (see the link
// package).
//
// # Bit Timing
//
// The shared timing discipline is captured by [Timing]: ticks per bit is the
// integer quotient of the clock frequency and the baud rate, and both engines
// must be constructed from the same Timing value. The quotient must be at
// least 2 for the receiver's half-bit midpoint arithmetic to be meaningful;
// [NewTiming] rejects anything smaller. The truncation performs no drift
// correction: implementers choosing clock/baud pairs must ensure the residual
// error accumulated across the 10-unit-interval frame keeps every sampling
// point inside its true unit interval.
//
// # Wire Contract
//
// The serial line idles at logic high. A frame is exactly 10 unit intervals:
//
//	StartBit(low, 1 unit) + Data[0..7](LSB first, 1 unit each) + StopBit(high, 1 unit)
//
// The transmitter exclusively writes the line and the receiver exclusively
// reads it through its own 2-stage input synchronizer; the engines share no
// other state.
package uart
