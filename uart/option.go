package uart

import (
	"errors"

	"github.com/arloliu/go-uartlink/logger"
)

// TxOption is a functional option for configuring a Transmitter.
type TxOption interface {
	apply(*Transmitter) error
}

type txOptFunc func(*Transmitter) error

func (f txOptFunc) apply(tx *Transmitter) error { return f(tx) }

// WithTxLogger sets the logger for the transmit engine.
func WithTxLogger(l logger.Logger) TxOption {
	return txOptFunc(func(tx *Transmitter) error {
		if l == nil {
			return errors.New("uart: logger must not be nil")
		}
		tx.logger = l

		return nil
	})
}

// WithTxMetrics attaches a Metrics collector to the transmit engine.
func WithTxMetrics(m *Metrics) TxOption {
	return txOptFunc(func(tx *Transmitter) error {
		if m == nil {
			return errors.New("uart: metrics must not be nil")
		}
		tx.metrics = m

		return nil
	})
}

// RxOption is a functional option for configuring a Receiver.
type RxOption interface {
	apply(*Receiver) error
}

type rxOptFunc func(*Receiver) error

func (f rxOptFunc) apply(rx *Receiver) error { return f(rx) }

// WithRxLogger sets the logger for the receive engine.
func WithRxLogger(l logger.Logger) RxOption {
	return rxOptFunc(func(rx *Receiver) error {
		if l == nil {
			return errors.New("uart: logger must not be nil")
		}
		rx.logger = l

		return nil
	})
}

// WithRxMetrics attaches a Metrics collector to the receive engine.
func WithRxMetrics(m *Metrics) RxOption {
	return rxOptFunc(func(rx *Receiver) error {
		if m == nil {
			return errors.New("uart: metrics must not be nil")
		}
		rx.metrics = m

		return nil
	})
}
