// permissions.go: the capability-check interface consulted before any
// loader interaction.
package dlbridge

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Permissions gates dynamic-library access. Check runs before every guarded
// operation; CheckRead additionally gates the path handed to the loader.
// Implementations return an error wrapping ErrPermissionDenied to deny.
type Permissions interface {
	Check() error
	CheckRead(path string) error
}

// NoPermissions allows everything. For embedders that gate access upstream.
type NoPermissions struct{}

func (NoPermissions) Check() error           { return nil }
func (NoPermissions) CheckRead(string) error { return nil }

// DenyAll refuses everything. The default when no capability was granted.
type DenyAll struct{}

func (DenyAll) Check() error {
	return fmt.Errorf("%w: dynamic library access is not granted", ErrPermissionDenied)
}
func (DenyAll) CheckRead(path string) error {
	return fmt.Errorf("%w: read access to %q is not granted", ErrPermissionDenied, path)
}

// AllowlistPermissions grants access only to libraries under the configured
// directory prefixes. Bare sonames (no path separator, resolved by the
// loader's search path) are permitted only when AllowSonames is set.
type AllowlistPermissions struct {
	Prefixes     []string
	AllowSonames bool
}

func (AllowlistPermissions) Check() error { return nil }

func (p AllowlistPermissions) CheckRead(path string) error {
	if !strings.ContainsRune(path, filepath.Separator) {
		if p.AllowSonames {
			return nil
		}
		return fmt.Errorf("%w: soname %q (allow-sonames is off)", ErrPermissionDenied, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrPermissionDenied, path, err)
	}
	abs = filepath.Clean(abs)
	for _, pre := range p.Prefixes {
		pre = filepath.Clean(pre)
		if abs == pre || strings.HasPrefix(abs, pre+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is outside the allowed paths", ErrPermissionDenied, path)
}
