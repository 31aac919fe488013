package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTiming(t *testing.T) {
	require := require.New(t)

	t.Run("50MHz at 9600 bps", func(t *testing.T) {
		timing, err := NewTiming(50_000_000, 9600)
		require.NoError(err)
		require.Equal(5208, timing.TicksPerBit())
		require.Equal(2604, timing.HalfBit())
		require.Equal(52080, timing.FrameTicks())
		require.Equal(50_000_000, timing.ClockHz())
		require.Equal(9600, timing.BaudRate())
	})

	t.Run("minimum quotient", func(t *testing.T) {
		timing, err := NewTiming(19200, 9600)
		require.NoError(err)
		require.Equal(2, timing.TicksPerBit())
		require.Equal(1, timing.HalfBit())
	})

	t.Run("truncation", func(t *testing.T) {
		// 50 MHz / 115200 = 434.03..., truncated.
		timing, err := NewTiming(50_000_000, 115200)
		require.NoError(err)
		require.Equal(434, timing.TicksPerBit())
		require.Equal(217, timing.HalfBit())
	})
}

func TestNewTimingRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		clockHz int
		baud    int
		wantErr error
	}{
		{"zero clock", 0, 9600, ErrInvalidClockRate},
		{"negative clock", -1, 9600, ErrInvalidClockRate},
		{"zero baud", 50_000_000, 0, ErrInvalidBaudRate},
		{"negative baud", 50_000_000, -9600, ErrInvalidBaudRate},
		{"quotient below 2", 9600, 9600, ErrBaudTooFast},
		{"baud faster than clock", 9600, 115200, ErrBaudTooFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTiming(tt.clockHz, tt.baud)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTimingString(t *testing.T) {
	timing, err := NewTiming(48000, 9600)
	require.NoError(t, err)
	require.Equal(t, "48000Hz/9600bps (5 ticks/bit)", timing.String())
}
