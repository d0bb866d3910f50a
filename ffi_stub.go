//go:build !linux || !cgo

package dlbridge

import (
	"fmt"
	"unsafe"
)

// Non-libffi build: every loader-touching helper fails with
// ErrPlatformUnsupported so the rest of the package still compiles and the
// pure marshalling logic stays testable.

func dlerr() string { return "" }

func cDlopen(path string) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("%w: dlopen(%q)", ErrPlatformUnsupported, path)
}

func cDlclose(unsafe.Pointer) error { return nil }

func cDlsym(_ unsafe.Pointer, name string) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("%w: dlsym(%q)", ErrPlatformUnsupported, name)
}

func cMalloc(uintptr) unsafe.Pointer { return nil }
func cFree(unsafe.Pointer)           {}

func cAllocVoidPtrArray(int) unsafe.Pointer              { return nil }
func cVoidPtrSlice(unsafe.Pointer, int) []unsafe.Pointer { return nil }

func ffiTypePtr(t TypeTag) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("%w: %s", ErrPlatformUnsupported, t)
}

type callInterface struct {
	nargs int
}

func prepCIF(TypeTag, []TypeTag) (*callInterface, error) {
	return nil, fmt.Errorf("%w: ffi_prep_cif", ErrPlatformUnsupported)
}

func (ci *callInterface) free() {}

func cFFICall(*callInterface, unsafe.Pointer, unsafe.Pointer, unsafe.Pointer) {}
