package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelayLineZeroDepth(t *testing.T) {
	require := require.New(t)

	dl := NewDelayLine(0, true)
	require.Equal(0, dl.Depth())
	require.True(dl.Shift(true))
	require.False(dl.Shift(false))
	require.True(dl.Peek(true))
}

func TestDelayLineShift(t *testing.T) {
	require := require.New(t)

	dl := NewDelayLine(3, true)
	require.Equal(3, dl.Depth())

	// Preloaded with the fill value for the first Depth() shifts.
	require.True(dl.Shift(false))
	require.True(dl.Shift(false))
	require.True(dl.Shift(true))

	// Now the samples pushed above come out in order.
	require.False(dl.Shift(true))
	require.False(dl.Shift(true))
	require.True(dl.Shift(true))
}

func TestDelayLinePeek(t *testing.T) {
	require := require.New(t)

	dl := NewDelayLine(2, false)
	require.False(dl.Peek(true))

	dl.Shift(true)
	dl.Shift(true)
	require.True(dl.Peek(false))
}

func TestDelayLineFill(t *testing.T) {
	require := require.New(t)

	dl := NewDelayLine(4, false)
	dl.Shift(true)
	dl.Shift(true)

	dl.Fill(true)
	for i := 0; i < 4; i++ {
		require.True(dl.Shift(false))
	}
	for i := 0; i < 4; i++ {
		require.False(dl.Shift(false))
	}
}

func TestDelayLineNegativeDepth(t *testing.T) {
	dl := NewDelayLine(-1, false)
	require.Equal(t, 0, dl.Depth())
}
