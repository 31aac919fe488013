// Package trace captures tick-accurate wire activity for offline analysis.
//
// A Recorder attached to a link collects line-level transitions and frame
// events; the resulting Trace serializes to CBOR, keeping captures compact
// enough to ship off an embedded target.
package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// FormatVersion identifies the capture encoding. Bump on incompatible
// layout changes.
const FormatVersion = 1

// EventKind classifies a frame event within a capture.
type EventKind uint8

// Frame event kinds.
const (
	// KindValid records a receive session that confirmed its stop bit.
	KindValid EventKind = iota
	// KindError records a receive session that failed the stop bit check.
	KindError
	// KindDone records a completed transmission.
	KindDone
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindValid:
		return "valid"
	case KindError:
		return "error"
	case KindDone:
		return "done"
	default:
		return "unknown"
	}
}

// Header carries the timing parameters a capture was taken under, so a
// decoded trace is self-describing.
type Header struct {
	Version     int `cbor:"1,keyasint"`
	ClockHz     int `cbor:"2,keyasint"`
	BaudRate    int `cbor:"3,keyasint"`
	TicksPerBit int `cbor:"4,keyasint"`
}

// Transition records the line changing level at a tick. The line level
// between two transitions is the Level of the earlier one.
type Transition struct {
	Tick  uint64 `cbor:"1,keyasint"`
	Level bool   `cbor:"2,keyasint"`
}

// Event records a frame outcome at a tick. Byte is meaningful only for
// KindValid events.
type Event struct {
	Tick uint64    `cbor:"1,keyasint"`
	Kind EventKind `cbor:"2,keyasint"`
	Byte byte      `cbor:"3,keyasint,omitempty"`
}

// Trace is a complete wire capture.
type Trace struct {
	Header      Header       `cbor:"1,keyasint"`
	Transitions []Transition `cbor:"2,keyasint"`
	Events      []Event      `cbor:"3,keyasint"`
}

// Marshal serializes the trace to CBOR.
func (t *Trace) Marshal() ([]byte, error) {
	data, err := cbor.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("trace: encode failed: %w", err)
	}

	return data, nil
}

// Unmarshal deserializes a CBOR capture.
func Unmarshal(data []byte) (*Trace, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("trace: empty capture")
	}

	t := &Trace{}
	if err := cbor.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("trace: decode failed: %w", err)
	}

	if t.Header.Version != FormatVersion {
		return nil, fmt.Errorf("trace: unsupported capture version %d, want %d",
			t.Header.Version, FormatVersion)
	}

	return t, nil
}

// LevelAt returns the recorded line level at the given tick. Ticks before
// the first transition report the idle-high level.
func (t *Trace) LevelAt(tick uint64) bool {
	level := true
	for _, tr := range t.Transitions {
		if tr.Tick > tick {
			break
		}
		level = tr.Level
	}

	return level
}
