package link

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-uartlink/uart"
)

func newTestLink(t *testing.T, clockHz, baud int, opts ...Option) (*Link, *uart.Metrics) {
	t.Helper()

	timing, err := uart.NewTiming(clockHz, baud)
	require.NoError(t, err)

	metrics := &uart.Metrics{}

	tx, err := uart.NewTransmitter(timing, uart.WithTxMetrics(metrics))
	require.NoError(t, err)
	rx, err := uart.NewReceiver(timing, uart.WithRxMetrics(metrics))
	require.NoError(t, err)

	l, err := New(tx, rx, opts...)
	require.NoError(t, err)

	return l, metrics
}

// drain steps the link until both engines are idle again.
func drain(l *Link) {
	for i := 0; i < l.Tx().Timing().FrameTicks(); i++ {
		if l.Tx().State().IsIdle() && l.Rx().State().IsIdle() {
			return
		}
		l.Step()
	}
}

func TestLinkRoundTripAllBytes(t *testing.T) {
	configs := []struct {
		clockHz int
		baud    int
	}{
		{19200, 9600},  // 2 ticks/bit, the minimum
		{28800, 9600},  // 3 ticks/bit, odd divisor
		{48000, 9600},  // 5 ticks/bit
		{153600, 9600}, // 16 ticks/bit
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("%dHz", cfg.clockHz), func(t *testing.T) {
			require := require.New(t)

			l, metrics := newTestLink(t, cfg.clockHz, cfg.baud)

			for b := 0; b < 256; b++ {
				ev, ok, err := l.Transfer(byte(b))
				require.NoError(err, "byte 0x%02X", b)
				require.True(ok, "byte 0x%02X", b)
				require.NoError(ev.Err, "byte 0x%02X", b)
				require.Equal(byte(b), ev.Byte)

				drain(l)
			}

			require.Equal(uint64(256), metrics.FrameSendCount.Load())
			require.Equal(uint64(256), metrics.FrameRecvCount.Load())
			require.Equal(uint64(0), metrics.FramingErrCount.Load())
			require.Equal(uint64(0), metrics.FalseStartCount.Load())
		})
	}
}

func TestLinkDeploymentTiming(t *testing.T) {
	require := require.New(t)

	// 50 MHz / 9600 bps, the canonical deployment configuration.
	l, _ := newTestLink(t, 50_000_000, 9600)

	for _, b := range []byte{0x00, 0xFF, 0xAA, 0x55} {
		ev, ok, err := l.Transfer(b)
		require.NoError(err)
		require.True(ok)
		require.NoError(ev.Err)
		require.Equal(b, ev.Byte)

		drain(l)
	}
}

func TestLinkTruncatedDivisor(t *testing.T) {
	require := require.New(t)

	// 50 MHz / 115200 bps truncates to 434 ticks/bit; the residual drift
	// across 10 bits stays well inside half a unit interval.
	l, _ := newTestLink(t, 50_000_000, 115200)

	ev, ok, err := l.Transfer(0x5A)
	require.NoError(err)
	require.True(ok)
	require.NoError(ev.Err)
	require.Equal(byte(0x5A), ev.Byte)
}

func TestLinkConstructorValidation(t *testing.T) {
	require := require.New(t)

	t1, err := uart.NewTiming(19200, 9600)
	require.NoError(err)
	t2, err := uart.NewTiming(48000, 9600)
	require.NoError(err)

	tx, err := uart.NewTransmitter(t1)
	require.NoError(err)
	rx, err := uart.NewReceiver(t2)
	require.NoError(err)

	_, err = New(tx, rx)
	require.ErrorIs(err, ErrTimingMismatch)

	_, err = New(nil, rx)
	require.ErrorIs(err, ErrNilEngine)

	_, err = New(tx, nil)
	require.ErrorIs(err, ErrNilEngine)

	_, err = New(tx, tx2rx(t, t1), WithLineDelay(-1))
	require.Error(err)
}

func tx2rx(t *testing.T, timing uart.Timing) *uart.Receiver {
	t.Helper()

	rx, err := uart.NewReceiver(timing)
	require.NoError(t, err)

	return rx
}

func TestLinkStartExclusivity(t *testing.T) {
	require := require.New(t)

	var got []byte
	l, metrics := newTestLink(t, 48000, 9600)
	l.onValid = func(b byte) { got = append(got, b) }

	require.True(l.Tx().Submit(0x55))
	l.Run(7)

	// A submit while busy is dropped and must not disturb the in-flight frame.
	require.False(l.Tx().Submit(0xFF))
	l.Run(l.Tx().Timing().FrameTicks() + l.Tx().Timing().TicksPerBit())

	require.Equal([]byte{0x55}, got)
	require.Equal(uint64(1), metrics.SubmitDropCount.Load())
	require.Equal(uint64(1), metrics.FrameRecvCount.Load())
}

func TestLinkTransferWhileBusy(t *testing.T) {
	require := require.New(t)

	l, _ := newTestLink(t, 48000, 9600)
	require.True(l.Tx().Submit(0x01))

	_, _, err := l.Transfer(0x02)
	require.ErrorIs(err, ErrLinkBusy)
}

func TestLinkFramingErrorInjection(t *testing.T) {
	require := require.New(t)

	l, metrics := newTestLink(t, 153600, 9600)
	timing := l.Tx().Timing()

	var validCount, errorCount int
	l.onValid = func(byte) { validCount++ }
	l.onError = func() { errorCount++ }

	require.True(l.Tx().Submit(0x3B))

	// Run up to the stop interval, then force the line low through the
	// receiver's stop-bit sample point.
	l.Run(9 * timing.TicksPerBit())
	l.ForceLow(timing.TicksPerBit() + timing.HalfBit() + 4)
	l.Run(2*timing.TicksPerBit() + 16)

	require.Equal(0, validCount)
	require.Equal(1, errorCount)
	require.Equal(uint64(1), metrics.FramingErrCount.Load())
	require.Equal(uint64(0), metrics.FrameRecvCount.Load())
}

func TestLinkFalseStartGlitch(t *testing.T) {
	require := require.New(t)

	l, metrics := newTestLink(t, 153600, 9600)
	timing := l.Tx().Timing()

	var events int
	l.onValid = func(byte) { events++ }
	l.onError = func() { events++ }

	// A glitch shorter than half a bit period must be rejected silently.
	l.ForceLow(timing.HalfBit() - 1)
	l.Run(4 * timing.TicksPerBit())

	require.Equal(0, events)
	require.False(l.Rx().Busy())
	require.Equal(uint64(1), metrics.FalseStartCount.Load())

	// The link still works afterwards.
	ev, ok, err := l.Transfer(0x7E)
	require.NoError(err)
	require.True(ok)
	require.NoError(ev.Err)
	require.Equal(byte(0x7E), ev.Byte)
}

func TestLinkLineDelay(t *testing.T) {
	require := require.New(t)

	l, _ := newTestLink(t, 48000, 9600, WithLineDelay(10))

	for _, b := range []byte{0x11, 0xEE} {
		ev, ok, err := l.Transfer(b)
		require.NoError(err)
		require.True(ok)
		require.NoError(ev.Err)
		require.Equal(b, ev.Byte)

		drain(l)
	}
}

func TestLinkReset(t *testing.T) {
	require := require.New(t)

	l, _ := newTestLink(t, 48000, 9600)

	require.True(l.Tx().Submit(0x99))
	l.Run(3 * l.Tx().Timing().TicksPerBit())
	require.True(l.Tx().Busy())
	require.True(l.Rx().Busy())

	l.Reset()
	require.Equal(uart.TxIdle, l.Tx().State())
	require.Equal(uart.RxIdle, l.Rx().State())
	require.False(l.Tx().Busy())
	require.False(l.Rx().Busy())
	require.False(l.Tx().Done())
	require.False(l.Rx().Valid())
	require.False(l.Rx().Err())

	// No stale activity surfaces after the abandoned session.
	var events int
	l.onValid = func(byte) { events++ }
	l.onError = func() { events++ }
	l.Run(l.Tx().Timing().FrameTicks())
	require.Equal(0, events)

	// A fresh transfer completes normally.
	ev, ok, err := l.Transfer(0x42)
	require.NoError(err)
	require.True(ok)
	require.NoError(ev.Err)
	require.Equal(byte(0x42), ev.Byte)
}

func TestLinkDoneHandler(t *testing.T) {
	require := require.New(t)

	var doneCount int
	l, _ := newTestLink(t, 19200, 9600)
	l.onDone = func() { doneCount++ }

	_, ok, err := l.Transfer(0xD4)
	require.NoError(err)
	require.True(ok)

	drain(l)
	require.Equal(1, doneCount)
}

func TestLinkTickCount(t *testing.T) {
	l, _ := newTestLink(t, 19200, 9600)
	require.Equal(t, uint64(0), l.Tick())

	l.Run(25)
	require.Equal(t, uint64(25), l.Tick())
}
