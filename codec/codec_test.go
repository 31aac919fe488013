package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableRegister(t *testing.T) {
	require := require.New(t)

	table := NewTable()
	require.Equal(0, table.Size())

	require.NoError(table.Register("door-open", 0x11))
	require.NoError(table.Register("door-closed", 0x22))
	require.Equal(2, table.Size())

	code, ok := table.CodeOf("door-open")
	require.True(ok)
	require.Equal(byte(0x11), code)

	name, ok := table.NameOf(0x22)
	require.True(ok)
	require.Equal("door-closed", name)

	_, ok = table.CodeOf("unknown")
	require.False(ok)
	_, ok = table.NameOf(0x99)
	require.False(ok)

	require.ElementsMatch([]string{"door-open", "door-closed"}, table.Conditions())
}

func TestTableRejectsDuplicates(t *testing.T) {
	require := require.New(t)

	table := NewTable()
	require.NoError(table.Register("door-open", 0x11))

	// Same name, different code.
	require.ErrorIs(table.Register("door-open", 0x33), ErrDuplicateEntry)
	// Different name, same code.
	require.ErrorIs(table.Register("window-open", 0x11), ErrDuplicateEntry)

	require.Equal(1, table.Size())
}

func TestDefaultTable(t *testing.T) {
	require := require.New(t)

	table := DefaultTable()
	require.Equal(4, table.Size())

	tests := []struct {
		name string
		code byte
	}{
		{"sensor-clear", CodeSensorClear},
		{"sensor-tripped", CodeSensorTripped},
		{"link-test", CodeLinkTest},
		{"battery-low", CodeBatteryLow},
	}
	for _, tt := range tests {
		code, ok := table.CodeOf(tt.name)
		require.True(ok, tt.name)
		require.Equal(tt.code, code, tt.name)
	}
}

func TestEncoderStateChanged(t *testing.T) {
	require := require.New(t)

	var sent []byte
	accept := true
	submit := func(data byte) bool {
		if !accept {
			return false
		}
		sent = append(sent, data)

		return true
	}

	enc, err := NewEncoder(DefaultTable(), submit)
	require.NoError(err)

	require.NoError(enc.StateChanged("sensor-tripped"))
	require.NoError(enc.StateChanged("sensor-clear"))
	require.Equal([]byte{CodeSensorTripped, CodeSensorClear}, sent)

	// Unknown conditions never reach the transmit engine.
	err = enc.StateChanged("sensor-exploded")
	require.ErrorIs(err, ErrUnknownCondition)
	require.Len(sent, 2)

	// A busy engine drops the report; nothing is queued.
	accept = false
	err = enc.StateChanged("link-test")
	require.ErrorIs(err, ErrLinkBusy)
	require.Len(sent, 2)

	accept = true
	require.NoError(enc.StateChanged("link-test"))
	require.Equal(CodeLinkTest, sent[2])
}

func TestEncoderValidation(t *testing.T) {
	submit := func(byte) bool { return true }

	_, err := NewEncoder(nil, submit)
	require.Error(t, err)

	_, err = NewEncoder(DefaultTable(), nil)
	require.Error(t, err)

	_, err = NewEncoder(DefaultTable(), submit, WithEncoderLogger(nil))
	require.Error(t, err)
}

func TestDecoderDecode(t *testing.T) {
	require := require.New(t)

	dec, err := NewDecoder(DefaultTable())
	require.NoError(err)

	name, err := dec.Decode(CodeBatteryLow)
	require.NoError(err)
	require.Equal("battery-low", name)

	name, err = dec.Decode(0x01)
	require.ErrorIs(err, ErrUnrecognizedCode)
	require.Empty(name)
}

func TestDecoderValidation(t *testing.T) {
	_, err := NewDecoder(nil)
	require.Error(t, err)

	_, err = NewDecoder(DefaultTable(), WithDecoderLogger(nil))
	require.Error(t, err)
}
