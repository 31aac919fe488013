package uart

// TxState represents the transmit engine's position within a frame.
type TxState uint8

// Transmit engine states. A transmission walks TxIdle → TxStart → TxData →
// TxStop → TxCleanup → TxIdle; each bit state is held for TicksPerBit ticks.
const (
	// TxIdle indicates no transmission in flight; the line is held high.
	TxIdle TxState = iota
	// TxStart indicates the start bit (low) is being driven.
	TxStart
	// TxData indicates one of the 8 data bits is being driven, LSB first.
	TxData
	// TxStop indicates the stop bit (high) is being driven.
	TxStop
	// TxCleanup is the single-cycle completion state: busy clears and the
	// done pulse fires.
	TxCleanup
)

// IsIdle returns true if the engine is ready to accept a new byte.
func (s TxState) IsIdle() bool { return s == TxIdle }

// String returns the string representation of the state.
func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxStart:
		return "start-bit"
	case TxData:
		return "data-bits"
	case TxStop:
		return "stop-bit"
	case TxCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// RxState represents the receive engine's position within a frame.
type RxState uint8

// Receive engine states. A reception walks RxIdle → RxVerifyStart → RxData →
// RxVerifyStop → RxCleanup → RxIdle. RxVerifyStart may abort straight back to
// RxIdle on a rejected false start.
const (
	// RxIdle indicates the engine is watching the synchronized line for a
	// falling edge.
	RxIdle RxState = iota
	// RxVerifyStart indicates a falling edge was seen and the engine is
	// waiting HalfBit ticks to re-check the line at the start bit's midpoint.
	RxVerifyStart
	// RxData indicates the 8 data bits are being sampled, LSB first, one
	// sample every TicksPerBit ticks.
	RxData
	// RxVerifyStop indicates the engine is waiting to sample the stop bit.
	RxVerifyStop
	// RxCleanup is the single-cycle state that clears busy.
	RxCleanup
)

// IsIdle returns true if the engine is waiting for a start bit.
func (s RxState) IsIdle() bool { return s == RxIdle }

// String returns the string representation of the state.
func (s RxState) String() string {
	switch s {
	case RxIdle:
		return "idle"
	case RxVerifyStart:
		return "verify-start"
	case RxData:
		return "data-bits"
	case RxVerifyStop:
		return "verify-stop"
	case RxCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}
