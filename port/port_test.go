package port

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenValidation(t *testing.T) {
	_, err := Open("", 9600)
	require.ErrorIs(t, err, ErrInvalidDevice)

	_, err = Open("/dev/ttyUSB0", 0)
	require.ErrorIs(t, err, ErrInvalidBaudRate)

	_, err = Open("/dev/ttyUSB0", -9600)
	require.ErrorIs(t, err, ErrInvalidBaudRate)

	_, err = Open("/dev/ttyUSB0", 9600, WithLogger(nil))
	require.Error(t, err)
}

func TestOpenMissingDevice(t *testing.T) {
	// Device validation happens before touching the OS, so a nonexistent path
	// fails at serial.Open with a wrapped error rather than a panic.
	_, err := Open("/dev/nonexistent-uartlink-test", 9600)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidDevice)
}
