package dlbridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// The unstable gate is process-fatal by design; tests intercept the exit
// through the exitFn indirection.
func TestUnstableGateAborts(t *testing.T) {
	old := exitFn
	defer func() { exitFn = old }()
	var code int
	exitFn = func(c int) { code = c; panic("gate") }

	d := NewDispatcher(false, NoPermissions{})
	require.PanicsWithValue(t, "gate", func() {
		_, _ = d.OpenLibrary("/usr/lib/libm.so.6")
	})
	require.Equal(t, 70, code)

	code = 0
	require.PanicsWithValue(t, "gate", func() {
		_, _ = d.CallSymbol(1, CallRequest{Symbol: "sqrt", ReturnType: "f64"})
	})
	require.Equal(t, 70, code)
}

func TestPermissionDeniedBeforeLoader(t *testing.T) {
	d := NewDispatcher(true, DenyAll{})
	_, err := d.OpenLibrary("/usr/lib/libm.so.6")
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.Equal(t, 0, d.Handles())

	_, err = d.CallSymbol(1, CallRequest{Symbol: "sqrt", ReturnType: "f64"})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestNilPermissionsDeny(t *testing.T) {
	d := NewDispatcher(true, nil)
	_, err := d.OpenLibrary("/usr/lib/libm.so.6")
	require.ErrorIs(t, err, ErrPermissionDenied)
}

// An unknown handle id fails before any native interaction: no library has
// been opened in this process at all.
func TestCallUnknownHandle(t *testing.T) {
	d := NewDispatcher(true, NoPermissions{})
	_, err := d.CallSymbol(42, CallRequest{
		Symbol:     "sqrt",
		Args:       []CallArg{{Type: "f64", Value: Uint(9)}},
		ReturnType: "f64",
	})
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestCloseUnknownHandle(t *testing.T) {
	d := NewDispatcher(true, NoPermissions{})
	require.ErrorIs(t, d.Close(7), ErrInvalidHandle)
}

func TestHandleFromWire(t *testing.T) {
	id, err := HandleFromWire(3)
	require.NoError(t, err)
	require.Equal(t, HandleID(3), id)

	_, err = HandleFromWire(-1)
	require.ErrorIs(t, err, ErrInvalidHandle)
	_, err = HandleFromWire(math.MaxInt64)
	require.ErrorIs(t, err, ErrInvalidHandle)
}
