package dlbridge

import "errors"

// Error taxonomy for the dispatch surface. Every recoverable failure is
// returned to the caller wrapped around one of these sentinels so embedders
// can classify with errors.Is. A crash inside the called native function is
// not represented here: control has left the Go runtime and there is nothing
// to catch (see the call boundary in invoke.go).
var (
	// ErrPermissionDenied is returned by a Permissions implementation before
	// any loader interaction takes place.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidHandle marks an unknown or already-closed library handle id.
	ErrInvalidHandle = errors.New("invalid library handle")

	// ErrLibraryLoad wraps the platform loader's diagnostic when a path does
	// not resolve to a loadable dynamic library.
	ErrLibraryLoad = errors.New("library load failed")

	// ErrSymbolNotFound marks a name absent from the library's export table.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrLibraryClosed marks use of a Library after Close. Closing twice is
	// also reported through this sentinel: a library is unloaded exactly once.
	ErrLibraryClosed = errors.New("library already closed")

	// ErrUnknownType marks a type name outside the closed TypeName vocabulary.
	ErrUnknownType = errors.New("unknown type")

	// ErrTypeMismatch marks a value whose representation class is incompatible
	// with the declared type (e.g. a float bound to an integer parameter).
	// Numeric narrowing is NOT a mismatch; it truncates (see TypeTag).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedType marks a tag with no native-ABI mapping. Unreachable
	// for the current closed set; stated for extensibility.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrPlatformUnsupported is returned by every loader-touching operation
	// on platforms without the dlfcn/libffi backend.
	ErrPlatformUnsupported = errors.New("dynamic library calls not supported on this platform")
)
