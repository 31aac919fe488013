package uart

import (
	"github.com/arloliu/go-uartlink/logger"
)

// Transmitter is the clocked transmit engine.
//
// It owns the transmit session state exclusively: the latched shift buffer,
// the bit position, and the tick counter within the current unit interval.
// At most one transmission is in flight at a time; Submit requests issued
// while busy are dropped.
//
// Transmitter is NOT goroutine-safe. It is advanced by exactly one Tick call
// per simulated clock edge, and Submit/Out/Busy/Done must be called from the
// same tick-driving goroutine, consistent with the single-clock-domain model.
type Transmitter struct {
	timing  Timing
	logger  logger.Logger
	metrics *Metrics

	state  TxState
	shift  byte // remaining data bits, current bit at LSB
	bitIdx int  // data bits already completed
	tick   int  // ticks elapsed within the current unit interval
	out    bool // driven line level
	busy   bool
	done   bool
}

// NewTransmitter creates a transmit engine for the given timing.
//
// The engine starts in TxIdle with the line held high.
func NewTransmitter(timing Timing, opts ...TxOption) (*Transmitter, error) {
	tx := &Transmitter{
		timing: timing,
		logger: logger.GetLogger(),
		out:    true,
	}

	for _, opt := range opts {
		if err := opt.apply(tx); err != nil {
			return nil, err
		}
	}

	return tx, nil
}

// Submit latches data for transmission and starts a new session.
//
// It returns true if the byte was accepted. While a transmission is in
// flight the request is silently dropped and Submit returns false; the
// engine offers no buffering, so callers must observe Busy deasserted
// before submitting again.
//
// On an accepted Submit the engine asserts busy and begins driving the
// start bit immediately; the bit is then held for TicksPerBit ticks.
func (tx *Transmitter) Submit(data byte) bool {
	if !tx.state.IsIdle() {
		tx.metrics.incSubmitDropCount()
		tx.logger.Debug("submit dropped, transmission in flight",
			"data", data, "state", tx.state.String())

		return false
	}

	tx.shift = data
	tx.bitIdx = 0
	tx.tick = 0
	tx.state = TxStart
	tx.out = false
	tx.busy = true
	tx.logger.Debug("submit accepted", "data", data)

	return true
}

// Tick advances the engine by one clock edge.
func (tx *Transmitter) Tick() {
	switch tx.state {
	case TxIdle:
		tx.out = true

	case TxStart:
		tx.tick++
		if tx.tick == tx.timing.ticksPerBit {
			tx.tick = 0
			tx.state = TxData
			tx.out = tx.shift&0x01 != 0
		}

	case TxData:
		tx.tick++
		if tx.tick == tx.timing.ticksPerBit {
			tx.tick = 0
			tx.shift >>= 1
			tx.bitIdx++
			if tx.bitIdx == 8 {
				tx.state = TxStop
				tx.out = true
			} else {
				tx.out = tx.shift&0x01 != 0
			}
		}

	case TxStop:
		tx.tick++
		if tx.tick == tx.timing.ticksPerBit {
			tx.tick = 0
			tx.state = TxCleanup
			tx.busy = false
			tx.done = true
			tx.metrics.incFrameSendCount()
			tx.logger.Debug("frame sent")
		}

	case TxCleanup:
		tx.done = false
		tx.state = TxIdle
	}
}

// Reset synchronously forces the engine back to TxIdle: line high, busy and
// done cleared, shift buffer cleared. An in-flight session is abandoned
// without completion signaling.
func (tx *Transmitter) Reset() {
	tx.state = TxIdle
	tx.shift = 0
	tx.bitIdx = 0
	tx.tick = 0
	tx.out = true
	tx.busy = false
	tx.done = false
}

// Out returns the driven serial line level. The line idles high.
func (tx *Transmitter) Out() bool { return tx.out }

// Busy reports whether a transmission is in flight. It stays asserted for
// the full frame duration, from the accepted Submit through the end of the
// stop bit.
func (tx *Transmitter) Busy() bool { return tx.busy }

// Done reports the single-cycle completion pulse. It is true only during the
// cleanup cycle immediately after the stop bit's last tick.
func (tx *Transmitter) Done() bool { return tx.done }

// State returns the engine's current state.
func (tx *Transmitter) State() TxState { return tx.state }

// Timing returns the engine's timing discipline.
func (tx *Transmitter) Timing() Timing { return tx.timing }
