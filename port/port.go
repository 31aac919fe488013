// Package port retargets the validated-byte boundary of the link onto a host
// serial device.
//
// In deployment the operating system's UART provides the bit-level framing
// that the uart package simulates: this package opens the device in the same
// 8N1 configuration the engines implement (8 data bits, no parity, one stop
// bit) and exchanges single-byte payloads over it.
package port

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/arloliu/go-uartlink/logger"
)

var (
	// ErrInvalidDevice indicates that an empty device path was provided.
	ErrInvalidDevice = errors.New("port: device path must not be empty")

	// ErrInvalidBaudRate indicates that a non-positive baud rate was provided.
	ErrInvalidBaudRate = errors.New("port: baud rate must be a positive integer")

	// ErrClosed indicates that the bridge was closed.
	ErrClosed = errors.New("port: bridge closed")
)

// readPollInterval bounds each blocking read so Listen can observe context
// cancellation.
const readPollInterval = 100 * time.Millisecond

// Bridge carries link payload bytes over a physical serial device.
//
// Send may be called concurrently with a running Listen loop; the underlying
// port serializes writes.
type Bridge struct {
	device string
	baud   int
	port   serial.Port
	logger logger.Logger
	closed bool
}

// Open opens the serial device in 8N1 mode at the given baud rate.
func Open(device string, baud int, opts ...Option) (*Bridge, error) {
	if device == "" {
		return nil, ErrInvalidDevice
	}
	if baud <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBaudRate, baud)
	}

	b := &Bridge{
		device: device,
		baud:   baud,
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(b); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("port: open %s: %w", device, err)
	}
	b.port = p

	b.logger.Info("serial bridge opened", "device", device, "baud", baud)

	return b, nil
}

// Send writes one payload byte to the device.
func (b *Bridge) Send(data byte) error {
	if b.closed {
		return ErrClosed
	}

	if _, err := b.port.Write([]byte{data}); err != nil {
		return fmt.Errorf("port: write: %w", err)
	}

	return nil
}

// Listen reads payload bytes from the device and delivers each one to the
// handler until the context is cancelled or a read fails.
//
// The handler is invoked synchronously on the listen goroutine; a dropped or
// slow handler stalls reception, matching the no-buffering contract of the
// link core.
func (b *Bridge) Listen(ctx context.Context, handler func(data byte)) error {
	if handler == nil {
		return errors.New("port: handler must not be nil")
	}

	if err := b.port.SetReadTimeout(readPollInterval); err != nil {
		return fmt.Errorf("port: set read timeout: %w", err)
	}

	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := b.port.Read(buf)
		if err != nil {
			if b.closed {
				return ErrClosed
			}

			return fmt.Errorf("port: read: %w", err)
		}

		for _, data := range buf[:n] {
			handler(data)
		}
	}
}

// Close closes the serial device.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.port.Close(); err != nil {
		return fmt.Errorf("port: close: %w", err)
	}

	b.logger.Info("serial bridge closed", "device", b.device)

	return nil
}

// Device returns the device path.
func (b *Bridge) Device() string { return b.device }

// BaudRate returns the configured baud rate.
func (b *Bridge) BaudRate() int { return b.baud }

// Option is a functional option for configuring a Bridge.
type Option interface {
	apply(*Bridge) error
}

type optFunc func(*Bridge) error

func (f optFunc) apply(b *Bridge) error { return f(b) }

// WithLogger sets the logger for the bridge.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(b *Bridge) error {
		if l == nil {
			return errors.New("port: logger must not be nil")
		}
		b.logger = l

		return nil
	})
}
