package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-uartlink/uart"
)

func TestRecorderStoresTransitionsOnly(t *testing.T) {
	require := require.New(t)

	r := NewRecorder(48000, 9600, 5)

	r.RecordLevel(0, true)
	r.RecordLevel(1, true)
	r.RecordLevel(2, true)
	r.RecordLevel(3, false)
	r.RecordLevel(4, false)
	r.RecordLevel(5, true)

	tr := r.Trace()
	require.Equal([]Transition{
		{Tick: 0, Level: true},
		{Tick: 3, Level: false},
		{Tick: 5, Level: true},
	}, tr.Transitions)

	require.Equal(FormatVersion, tr.Header.Version)
	require.Equal(48000, tr.Header.ClockHz)
	require.Equal(9600, tr.Header.BaudRate)
	require.Equal(5, tr.Header.TicksPerBit)
}

// Capture a real transmit waveform: 0xAA at 5 ticks/bit produces the
// alternating pattern 0,0,1,0,1,0,1,0,1,1 after the start bit.
func TestRecorderCapturesTransmitWaveform(t *testing.T) {
	require := require.New(t)

	timing, err := uart.NewTiming(48000, 9600)
	require.NoError(err)
	tx, err := uart.NewTransmitter(timing)
	require.NoError(err)

	r := NewRecorder(timing.ClockHz(), timing.BaudRate(), timing.TicksPerBit())

	var tick uint64
	step := func() {
		r.RecordLevel(tick, tx.Out())
		tx.Tick()
		tick++
	}

	for i := 0; i < 4; i++ {
		step()
	}
	require.True(tx.Submit(0xAA))
	for i := 0; i < timing.FrameTicks()+timing.TicksPerBit(); i++ {
		step()
	}

	require.Equal([]Transition{
		{Tick: 0, Level: true},
		{Tick: 4, Level: false},  // start bit, bit0 low
		{Tick: 14, Level: true},  // bit1
		{Tick: 19, Level: false}, // bit2
		{Tick: 24, Level: true},  // bit3
		{Tick: 29, Level: false}, // bit4
		{Tick: 34, Level: true},  // bit5
		{Tick: 39, Level: false}, // bit6
		{Tick: 44, Level: true},  // bit7, stop, idle
	}, r.Trace().Transitions)
}

func TestTraceLevelAt(t *testing.T) {
	require := require.New(t)

	tr := &Trace{
		Transitions: []Transition{
			{Tick: 4, Level: false},
			{Tick: 14, Level: true},
		},
	}

	require.True(tr.LevelAt(0)) // idle-high before the first transition
	require.True(tr.LevelAt(3))
	require.False(tr.LevelAt(4))
	require.False(tr.LevelAt(13))
	require.True(tr.LevelAt(14))
	require.True(tr.LevelAt(1000))
}

func TestTraceMarshalRoundTrip(t *testing.T) {
	require := require.New(t)

	r := NewRecorder(50_000_000, 9600, 5208)
	r.RecordLevel(0, true)
	r.RecordLevel(100, false)
	r.RecordLevel(5308, true)
	r.RecordEvent(52180, KindValid, 0xAA)
	r.RecordEvent(60000, KindError, 0)
	r.RecordEvent(60010, KindDone, 0)

	data, err := r.Trace().Marshal()
	require.NoError(err)

	got, err := Unmarshal(data)
	require.NoError(err)
	require.Equal(r.Trace(), got)

	require.Equal(KindValid, got.Events[0].Kind)
	require.Equal(byte(0xAA), got.Events[0].Byte)
	require.Equal(KindError, got.Events[1].Kind)
}

func TestUnmarshalRejectsBadCaptures(t *testing.T) {
	require := require.New(t)

	_, err := Unmarshal(nil)
	require.Error(err)

	_, err = Unmarshal([]byte{0xFF, 0x00, 0x01})
	require.Error(err)

	future := &Trace{Header: Header{Version: FormatVersion + 1}}
	data, err := future.Marshal()
	require.NoError(err)

	_, err = Unmarshal(data)
	require.ErrorContains(err, "unsupported capture version")
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "valid", KindValid.String())
	require.Equal(t, "error", KindError.String())
	require.Equal(t, "done", KindDone.String())
	require.Equal(t, "unknown", EventKind(9).String())
}
