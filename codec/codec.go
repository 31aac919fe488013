// Package codec implements the application-layer boundary of the telemetry
// link: a fixed table of recognized condition codes, an encoder that turns
// externally-debounced state changes into transmit requests, and a decoder
// that validates received bytes against the same table.
//
// The link core never interprets payload semantics; every byte-to-meaning
// mapping lives here. The encoder and decoder of a deployment must be built
// from the same table.
package codec

import "errors"

var (
	// ErrUnknownCondition indicates that the encoder was asked to report a
	// condition that has no code in the table.
	ErrUnknownCondition = errors.New("codec: condition not in code table")

	// ErrUnrecognizedCode indicates that a received byte matches no code in
	// the table.
	ErrUnrecognizedCode = errors.New("codec: unrecognized code")

	// ErrDuplicateEntry indicates that a Register call would overwrite an
	// existing condition name or code.
	ErrDuplicateEntry = errors.New("codec: condition or code already registered")

	// ErrLinkBusy indicates that the transmit engine dropped the encoder's
	// start request because a transmission was already in flight.
	ErrLinkBusy = errors.New("codec: transmit engine busy, code dropped")
)

// Built-in condition codes. The alternating-bit link-test pattern doubles as
// a line integrity check.
const (
	CodeSensorClear   byte = 0x0F
	CodeSensorTripped byte = 0xF0
	CodeLinkTest      byte = 0xAA
	CodeBatteryLow    byte = 0x3C
)

// DefaultTable returns a table preloaded with the built-in condition set.
func DefaultTable() *Table {
	t := NewTable()
	_ = t.Register("sensor-clear", CodeSensorClear)
	_ = t.Register("sensor-tripped", CodeSensorTripped)
	_ = t.Register("link-test", CodeLinkTest)
	_ = t.Register("battery-low", CodeBatteryLow)

	return t
}
