package uart

import "errors"

var (
	// ErrInvalidClockRate indicates that a non-positive clock frequency was provided.
	ErrInvalidClockRate = errors.New("clock frequency must be a positive integer")

	// ErrInvalidBaudRate indicates that a non-positive baud rate was provided.
	ErrInvalidBaudRate = errors.New("baud rate must be a positive integer")

	// ErrBaudTooFast indicates that the clock/baud quotient resolves to fewer
	// than 2 ticks per bit, leaving no room for the receiver's half-bit
	// midpoint arithmetic. The configuration must be rejected up front; the
	// engines perform no runtime re-validation.
	ErrBaudTooFast = errors.New("baud rate too fast for clock, ticks per bit must be >= 2")
)

var (
	// ErrFraming indicates that the stop bit was sampled low. The assembled
	// byte is discarded; this layer performs no retransmission or
	// acknowledgement.
	ErrFraming = errors.New("framing error, stop bit sampled low")
)
