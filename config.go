// config.go: embedder/CLI configuration loaded from dlbridge.toml.
package dlbridge

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config drives the dispatch surface's gates: the unstable opt-in and the
// capability policy handed to NewDispatcher.
type Config struct {
	Unstable    bool              `toml:"unstable"`
	Permissions PermissionsConfig `toml:"permissions"`
}

// PermissionsConfig describes the capability policy.
type PermissionsConfig struct {
	// AllowFFI grants dynamic-library access at all.
	AllowFFI bool `toml:"allow-ffi"`
	// AllowSonames permits bare sonames resolved by the loader search path.
	AllowSonames bool `toml:"allow-sonames"`
	// AllowedPaths restricts loadable libraries to these directory prefixes.
	// Empty means unrestricted (when AllowFFI is set).
	AllowedPaths []string `toml:"allowed-paths" validate:"dive,required"`
}

// DefaultConfig denies everything: the capability is an explicit opt-in.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig decodes and validates a dlbridge.toml.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// BuildPermissions derives the capability checker from the config.
func (c *Config) BuildPermissions() Permissions {
	p := c.Permissions
	if !p.AllowFFI {
		return DenyAll{}
	}
	if len(p.AllowedPaths) == 0 {
		// No path restriction configured: full grant, sonames included.
		return NoPermissions{}
	}
	return AllowlistPermissions{Prefixes: p.AllowedPaths, AllowSonames: p.AllowSonames}
}
