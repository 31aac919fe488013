package uart

import (
	"github.com/arloliu/go-uartlink/logger"
)

// Event is the outcome of one receive session, as reported by
// [Receiver.Poll]: a decoded byte, or ErrFraming if the stop bit check
// failed.
type Event struct {
	Byte byte
	Err  error
}

// Receiver is the clocked receive engine.
//
// The raw line sample passed to Tick first crosses a 2-stage register chain;
// the state machine only ever inspects the synchronized value. The mandatory
// 2-tick latency prevents an unresolved sample of the asynchronous input from
// propagating into comparison logic, and every downstream timing computation
// (falling-edge detection, mid-bit sampling) is defined relative to the
// synchronized signal, so the fixed delay cancels out of the arithmetic.
//
// Receiver is NOT goroutine-safe; it is advanced by exactly one Tick call per
// simulated clock edge from a single goroutine.
type Receiver struct {
	timing  Timing
	logger  logger.Logger
	metrics *Metrics

	// 2-stage input synchronizer; sync2 is the value the FSM inspects.
	sync1 bool
	sync2 bool

	state  RxState
	tick   int  // ticks elapsed since the previous sample point
	bitIdx int  // data bits already sampled
	shift  byte // assembled data bits, newest at MSB
	data   byte // output register, latched on a confirmed stop bit
	busy   bool
	valid  bool
	err    bool
}

// NewReceiver creates a receive engine for the given timing.
//
// The engine starts in RxIdle with the synchronizer preloaded to the
// idle-high pattern.
func NewReceiver(timing Timing, opts ...RxOption) (*Receiver, error) {
	rx := &Receiver{
		timing: timing,
		logger: logger.GetLogger(),
		sync1:  true,
		sync2:  true,
	}

	for _, opt := range opts {
		if err := opt.apply(rx); err != nil {
			return nil, err
		}
	}

	return rx, nil
}

// Tick advances the engine by one clock edge, sampling the raw asynchronous
// line level.
//
// The valid and error outputs are one-cycle pulses: they reflect only the
// cycle in which the stop-bit check completed, and Data is defined during
// the cycle Valid reports true.
func (rx *Receiver) Tick(raw bool) {
	prev := rx.sync2
	rx.sync2 = rx.sync1
	rx.sync1 = raw
	line := rx.sync2

	rx.valid = false
	rx.err = false

	switch rx.state {
	case RxIdle:
		// Falling edge on the synchronized line: possible start bit.
		if prev && !line {
			rx.state = RxVerifyStart
			rx.tick = 0
			rx.busy = true
		}

	case RxVerifyStart:
		rx.tick++
		if rx.tick == rx.timing.halfBit {
			if line {
				// Low pulse shorter than half a bit period: false start.
				// Rejected silently, no error is raised.
				rx.state = RxIdle
				rx.busy = false
				rx.metrics.incFalseStartCount()
				rx.logger.Debug("false start rejected")
			} else {
				rx.state = RxData
				rx.tick = 0
				rx.bitIdx = 0
				rx.shift = 0
			}
		}

	case RxData:
		rx.tick++
		if rx.tick == rx.timing.ticksPerBit {
			rx.tick = 0
			rx.shift >>= 1
			if line {
				rx.shift |= 0x80
			}
			rx.bitIdx++
			if rx.bitIdx == 8 {
				rx.state = RxVerifyStop
			}
		}

	case RxVerifyStop:
		rx.tick++
		if rx.tick == rx.timing.ticksPerBit {
			if line {
				rx.data = rx.shift
				rx.valid = true
				rx.metrics.incFrameRecvCount()
				rx.logger.Debug("frame received", "data", rx.data)
			} else {
				rx.err = true
				rx.metrics.incFramingErrCount()
				rx.logger.Debug("framing error, frame discarded")
			}
			rx.state = RxCleanup
		}

	case RxCleanup:
		rx.busy = false
		rx.state = RxIdle
	}
}

// Reset synchronously forces the engine back to RxIdle: the synchronizer is
// reloaded with the idle-high pattern, busy/valid/error are cleared, and all
// session registers are discarded. An in-flight reception is abandoned
// without signaling.
func (rx *Receiver) Reset() {
	rx.sync1 = true
	rx.sync2 = true
	rx.state = RxIdle
	rx.tick = 0
	rx.bitIdx = 0
	rx.shift = 0
	rx.data = 0
	rx.busy = false
	rx.valid = false
	rx.err = false
}

// Data returns the output register. Its value is only defined during the
// cycle in which Valid reports true.
func (rx *Receiver) Data() byte { return rx.data }

// Valid reports the single-cycle pulse raised when a frame was received and
// the stop bit confirmed.
func (rx *Receiver) Valid() bool { return rx.valid }

// Err reports the single-cycle pulse raised when the stop bit check failed.
func (rx *Receiver) Err() bool { return rx.err }

// Busy reports whether a reception is in progress, from the detected falling
// edge through cleanup.
func (rx *Receiver) Busy() bool { return rx.busy }

// Poll returns the outcome of the receive session that completed on the most
// recent Tick, if any. It is the event-style view of the Valid/Err pulses:
// it reports true at most once per session, during the same cycle the pulse
// is asserted.
func (rx *Receiver) Poll() (Event, bool) {
	switch {
	case rx.valid:
		return Event{Byte: rx.data}, true
	case rx.err:
		return Event{Err: ErrFraming}, true
	default:
		return Event{}, false
	}
}

// Synced returns the current output of the 2-stage input synchronizer, the
// only line value the state machine inspects.
func (rx *Receiver) Synced() bool { return rx.sync2 }

// State returns the engine's current state.
func (rx *Receiver) State() RxState { return rx.state }

// Timing returns the engine's timing discipline.
func (rx *Receiver) Timing() Timing { return rx.timing }
