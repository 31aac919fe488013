package codec

import (
	"fmt"

	"github.com/arloliu/go-uartlink/logger"
)

// Decoder validates received bytes against the code table.
//
// It is fed from the receive engine's valid pulse: one Decode call per pulse,
// with the byte from the engine's data output.
type Decoder struct {
	table  *Table
	logger logger.Logger
}

// NewDecoder creates a Decoder over the given table.
func NewDecoder(table *Table, opts ...DecoderOption) (*Decoder, error) {
	if table == nil {
		return nil, fmt.Errorf("codec: table must not be nil")
	}

	d := &Decoder{
		table:  table,
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Decode maps a received byte back to its condition name.
//
// Any byte not in the table raises ErrUnrecognizedCode; the byte value is
// included in the wrapped error for diagnostics.
func (d *Decoder) Decode(code byte) (string, error) {
	name, ok := d.table.NameOf(code)
	if !ok {
		d.logger.Debug("unrecognized code received", "code", code)
		return "", fmt.Errorf("%w: 0x%02X", ErrUnrecognizedCode, code)
	}

	d.logger.Debug("code decoded", "condition", name, "code", code)

	return name, nil
}

// DecoderOption is a functional option for configuring a Decoder.
type DecoderOption interface {
	apply(*Decoder) error
}

type decoderOptFunc func(*Decoder) error

func (f decoderOptFunc) apply(d *Decoder) error { return f(d) }

// WithDecoderLogger sets the logger for the decoder.
func WithDecoderLogger(l logger.Logger) DecoderOption {
	return decoderOptFunc(func(d *Decoder) error {
		if l == nil {
			return fmt.Errorf("codec: logger must not be nil")
		}
		d.logger = l

		return nil
	})
}
