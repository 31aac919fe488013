package uart

import "fmt"

// FrameBits is the fixed frame width in unit intervals:
// 1 start bit + 8 data bits + 1 stop bit.
const FrameBits = 10

// minTicksPerBit is the smallest clock/baud quotient for which the half-bit
// midpoint sample still lands inside the start bit.
const minTicksPerBit = 2

// Timing is the bit-timing discipline shared by both engines.
//
// TicksPerBit is the integer quotient clockHz/baudRate and HalfBit is
// TicksPerBit/2. The values are computed once by NewTiming and never change;
// a Transmitter and Receiver on the same line must be built from the same
// Timing value.
//
// The integer truncation performs no drift compensation. The residual error
// per bit is (clockHz mod baudRate)/baudRate ticks; across the 10-bit frame
// the accumulated error must stay below half a unit interval for the last
// sampling point to remain inside the stop bit. Exact divisors (e.g. 50 MHz /
// 9600 with the remainder spread below that bound) are safe; badly-chosen
// ratios are not detected at runtime.
type Timing struct {
	clockHz     int
	baudRate    int
	ticksPerBit int
	halfBit     int
}

// NewTiming derives the tick counts for a clock frequency in Hz and a baud
// rate in bits per second.
//
// Both inputs must be positive, and the derived ticks per bit must be at
// least 2; otherwise a configuration error is returned and no engine should
// be constructed.
func NewTiming(clockHz int, baudRate int) (Timing, error) {
	if clockHz <= 0 {
		return Timing{}, fmt.Errorf("%w: got %d", ErrInvalidClockRate, clockHz)
	}
	if baudRate <= 0 {
		return Timing{}, fmt.Errorf("%w: got %d", ErrInvalidBaudRate, baudRate)
	}

	ticksPerBit := clockHz / baudRate
	if ticksPerBit < minTicksPerBit {
		return Timing{}, fmt.Errorf("%w: %d Hz / %d bps = %d ticks per bit",
			ErrBaudTooFast, clockHz, baudRate, ticksPerBit)
	}

	return Timing{
		clockHz:     clockHz,
		baudRate:    baudRate,
		ticksPerBit: ticksPerBit,
		halfBit:     ticksPerBit / 2,
	}, nil
}

// ClockHz returns the configured clock frequency in Hz.
func (t Timing) ClockHz() int { return t.clockHz }

// BaudRate returns the configured baud rate in bits per second.
func (t Timing) BaudRate() int { return t.baudRate }

// TicksPerBit returns the number of clock ticks per unit interval.
func (t Timing) TicksPerBit() int { return t.ticksPerBit }

// HalfBit returns TicksPerBit/2, the receiver's mid-bit sampling offset.
func (t Timing) HalfBit() int { return t.halfBit }

// FrameTicks returns the duration of one full frame in clock ticks.
func (t Timing) FrameTicks() int { return FrameBits * t.ticksPerBit }

// String returns a human-readable summary of the timing parameters.
func (t Timing) String() string {
	return fmt.Sprintf("%dHz/%dbps (%d ticks/bit)", t.clockHz, t.baudRate, t.ticksPerBit)
}
