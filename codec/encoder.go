package codec

import (
	"fmt"

	"github.com/arloliu/go-uartlink/logger"
)

// SubmitFunc pulses the transmit engine's start input with a payload byte.
// It reports whether the engine accepted the request; see
// [uart.Transmitter.Submit].
type SubmitFunc func(data byte) bool

// Encoder watches an externally-debounced state-change signal and, on each
// change, pulses the transmit engine's start input with the condition's code.
//
// Debouncing is the caller's concern: StateChanged must be invoked once per
// settled change, the way a debounce stage pulses a change-detect line.
type Encoder struct {
	table  *Table
	submit SubmitFunc
	logger logger.Logger
}

// NewEncoder creates an Encoder over the given table and transmit hook.
func NewEncoder(table *Table, submit SubmitFunc, opts ...EncoderOption) (*Encoder, error) {
	if table == nil {
		return nil, fmt.Errorf("codec: table must not be nil")
	}
	if submit == nil {
		return nil, fmt.Errorf("codec: submit func must not be nil")
	}

	e := &Encoder{
		table:  table,
		submit: submit,
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// StateChanged reports a settled condition change and requests transmission
// of its code.
//
// It returns ErrUnknownCondition if the condition is not in the table, and
// ErrLinkBusy if the transmit engine dropped the request because a frame is
// already in flight. Backpressure is caller-managed: there is no queueing,
// and a busy drop loses this report.
func (e *Encoder) StateChanged(condition string) error {
	code, ok := e.table.CodeOf(condition)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCondition, condition)
	}

	if !e.submit(code) {
		e.logger.Debug("state change dropped, link busy", "condition", condition, "code", code)
		return fmt.Errorf("%w: condition %q", ErrLinkBusy, condition)
	}

	e.logger.Debug("state change encoded", "condition", condition, "code", code)

	return nil
}

// EncoderOption is a functional option for configuring an Encoder.
type EncoderOption interface {
	apply(*Encoder) error
}

type encoderOptFunc func(*Encoder) error

func (f encoderOptFunc) apply(e *Encoder) error { return f(e) }

// WithEncoderLogger sets the logger for the encoder.
func WithEncoderLogger(l logger.Logger) EncoderOption {
	return encoderOptFunc(func(e *Encoder) error {
		if l == nil {
			return fmt.Errorf("codec: logger must not be nil")
		}
		e.logger = l

		return nil
	})
}
