package codec

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Table is a bidirectional registry of recognized condition codes.
//
// It is safe for concurrent use: in a deployment the encoder and decoder
// typically live on different goroutines (sensor side and display side) while
// sharing one table.
type Table struct {
	byName *xsync.MapOf[string, byte]
	byCode *xsync.MapOf[byte, string]
}

// NewTable creates an empty code table.
func NewTable() *Table {
	return &Table{
		byName: xsync.NewMapOf[string, byte](),
		byCode: xsync.NewMapOf[byte, string](),
	}
}

// Register adds a condition name and its byte code to the table.
// Both the name and the code must be unused.
func (t *Table) Register(name string, code byte) error {
	if _, ok := t.byName.Load(name); ok {
		return fmt.Errorf("%w: name %q", ErrDuplicateEntry, name)
	}
	if _, ok := t.byCode.Load(code); ok {
		return fmt.Errorf("%w: code 0x%02X", ErrDuplicateEntry, code)
	}

	t.byName.Store(name, code)
	t.byCode.Store(code, name)

	return nil
}

// CodeOf returns the byte code for a condition name.
func (t *Table) CodeOf(name string) (byte, bool) {
	return t.byName.Load(name)
}

// NameOf returns the condition name for a byte code.
func (t *Table) NameOf(code byte) (string, bool) {
	return t.byCode.Load(code)
}

// Size returns the number of registered conditions.
func (t *Table) Size() int {
	return t.byName.Size()
}

// Conditions returns the registered condition names in unspecified order.
func (t *Table) Conditions() []string {
	names := make([]string, 0, t.byName.Size())
	t.byName.Range(func(name string, _ byte) bool {
		names = append(names, name)
		return true
	})

	return names
}
