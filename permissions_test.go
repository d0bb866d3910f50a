package dlbridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenyAll(t *testing.T) {
	var p Permissions = DenyAll{}
	require.ErrorIs(t, p.Check(), ErrPermissionDenied)
	require.ErrorIs(t, p.CheckRead("/usr/lib/libm.so.6"), ErrPermissionDenied)
}

func TestNoPermissions(t *testing.T) {
	var p Permissions = NoPermissions{}
	require.NoError(t, p.Check())
	require.NoError(t, p.CheckRead("/anything/at/all.so"))
}

func TestAllowlist(t *testing.T) {
	p := AllowlistPermissions{Prefixes: []string{"/usr/lib", "/opt/native/"}}

	t.Run("under-prefix", func(t *testing.T) {
		require.NoError(t, p.CheckRead("/usr/lib/libm.so.6"))
		require.NoError(t, p.CheckRead("/opt/native/plugin.so"))
	})
	t.Run("prefix-is-a-path-boundary", func(t *testing.T) {
		// /usr/libexec shares the string prefix but not the directory.
		require.ErrorIs(t, p.CheckRead("/usr/libexec/evil.so"), ErrPermissionDenied)
	})
	t.Run("outside", func(t *testing.T) {
		require.ErrorIs(t, p.CheckRead("/tmp/evil.so"), ErrPermissionDenied)
	})
	t.Run("dotdot-does-not-escape", func(t *testing.T) {
		require.ErrorIs(t, p.CheckRead("/usr/lib/../../tmp/evil.so"), ErrPermissionDenied)
	})
	t.Run("soname-off-by-default", func(t *testing.T) {
		require.ErrorIs(t, p.CheckRead("libm.so.6"), ErrPermissionDenied)
	})
	t.Run("soname-opt-in", func(t *testing.T) {
		q := AllowlistPermissions{Prefixes: []string{"/usr/lib"}, AllowSonames: true}
		require.NoError(t, q.CheckRead("libm.so.6"))
	})
}
