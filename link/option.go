package link

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-uartlink/internal/ring"
	"github.com/arloliu/go-uartlink/logger"
)

// maxLineDelay bounds the modeled propagation delay to keep the delay line
// allocation sane.
const maxLineDelay = 1 << 20

// Option is a functional option for configuring a Link.
type Option interface {
	apply(*Link) error
}

type optFunc func(*Link) error

func (f optFunc) apply(l *Link) error { return f(l) }

// WithLineDelay models a fixed line propagation delay of n ticks between the
// transmitter's output and the receiver's input. The default is 0 (a direct
// wire).
func WithLineDelay(n int) Option {
	return optFunc(func(l *Link) error {
		if n < 0 || n > maxLineDelay {
			return fmt.Errorf("link: line delay %d out of range [0, %d]", n, maxLineDelay)
		}
		l.delay = ring.NewDelayLine(n, true)

		return nil
	})
}

// WithLogger sets the logger for the link.
func WithLogger(lg logger.Logger) Option {
	return optFunc(func(l *Link) error {
		if lg == nil {
			return errors.New("link: logger must not be nil")
		}
		l.logger = lg

		return nil
	})
}

// WithStepFunc registers a per-tick observer of the line level, typically a
// trace recorder. It is invoked synchronously after each Step.
func WithStepFunc(fn StepFunc) Option {
	return optFunc(func(l *Link) error {
		l.onStep = fn

		return nil
	})
}

// WithValidHandler registers a handler invoked with the received byte on each
// valid pulse.
//
// Note: the handler runs synchronously within Step. Take care with
// long-running implementations.
func WithValidHandler(fn func(data byte)) Option {
	return optFunc(func(l *Link) error {
		l.onValid = fn

		return nil
	})
}

// WithErrorHandler registers a handler invoked on each framing-error pulse.
func WithErrorHandler(fn func()) Option {
	return optFunc(func(l *Link) error {
		l.onError = fn

		return nil
	})
}

// WithDoneHandler registers a handler invoked on each transmit-done pulse.
func WithDoneHandler(fn func()) Option {
	return optFunc(func(l *Link) error {
		l.onDone = fn

		return nil
	})
}
