package dlbridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dlbridge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
unstable = true

[permissions]
allow-ffi = true
allow-sonames = true
allowed-paths = ["/usr/lib", "/opt/native"]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Unstable)
	require.True(t, cfg.Permissions.AllowFFI)
	require.Equal(t, []string{"/usr/lib", "/opt/native"}, cfg.Permissions.AllowedPaths)

	p, ok := cfg.BuildPermissions().(AllowlistPermissions)
	require.True(t, ok)
	require.True(t, p.AllowSonames)
}

func TestLoadConfigRejectsEmptyPathEntry(t *testing.T) {
	path := writeConfig(t, `
[permissions]
allow-ffi = true
allowed-paths = [""]
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestBuildPermissionsPolicy(t *testing.T) {
	t.Run("default-denies", func(t *testing.T) {
		_, ok := DefaultConfig().BuildPermissions().(DenyAll)
		require.True(t, ok)
	})
	t.Run("allow-ffi-without-paths-is-full-grant", func(t *testing.T) {
		cfg := &Config{Permissions: PermissionsConfig{AllowFFI: true}}
		_, ok := cfg.BuildPermissions().(NoPermissions)
		require.True(t, ok)
	})
	t.Run("paths-produce-allowlist", func(t *testing.T) {
		cfg := &Config{Permissions: PermissionsConfig{
			AllowFFI:     true,
			AllowedPaths: []string{"/usr/lib"},
		}}
		p, ok := cfg.BuildPermissions().(AllowlistPermissions)
		require.True(t, ok)
		require.Equal(t, []string{"/usr/lib"}, p.Prefixes)
	})
}
