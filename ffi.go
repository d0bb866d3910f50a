//go:build linux && cgo

package dlbridge

/*
#cgo LDFLAGS: -ldl
#cgo pkg-config: libffi
#include <ffi.h>
#include <dlfcn.h>
#include <stdlib.h>

static void* dlb_dlopen(const char* path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}
static const char* dlb_dlerror(void) {
	return dlerror();
}
// Clear dlerror, call dlsym, and return the error (if any) alongside the symbol.
static void* dlb_dlsym(void* h, const char* name, char** err) {
	dlerror(); // clear
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { if (err) *err = e; return NULL; }
	if (err) *err = NULL;
	return p;
}
static int dlb_dlclose(void* h) {
	return dlclose(h);
}

// Allocate a cif on the C heap (so it outlives the Go stack frame).
static ffi_cif* dlb_alloc_cif(void) {
	return (ffi_cif*)malloc(sizeof(ffi_cif));
}

// ffi_call wrapper: accept a generic void* fn and a void** argv vector.
// This avoids cgo's function-pointer type constraints at the call site.
static void dlb_ffi_call(ffi_cif* cif, void* fn, void* rvalue, void** avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// All C references live in this file; the rest of the package consumes
// opaque unsafe.Pointers through the helpers below.

// dlerr returns the last dlerror as a Go string, or a fallback label.
func dlerr() string {
	errC := C.dlb_dlerror()
	if errC != nil {
		return C.GoString(errC)
	}
	return "unknown dlerror"
}

func cDlopen(path string) (unsafe.Pointer, error) {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	h := C.dlb_dlopen(cs)
	if h == nil {
		return nil, fmt.Errorf("%w: dlopen(%q): %s", ErrLibraryLoad, path, dlerr())
	}
	return unsafe.Pointer(h), nil
}

func cDlclose(h unsafe.Pointer) error {
	if int(C.dlb_dlclose(h)) != 0 {
		return fmt.Errorf("dlclose failed: %s", dlerr())
	}
	return nil
}

// cDlsym resolves a symbol name or returns an error with dlerror detail.
func cDlsym(h unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	var cerr *C.char
	p := C.dlb_dlsym(h, cs, &cerr)
	if cerr != nil {
		return nil, fmt.Errorf("%w: dlsym(%q): %s", ErrSymbolNotFound, name, C.GoString(cerr))
	}
	return p, nil
}

// C-heap memory helpers (argument cells must sit outside the Go heap: libffi
// reads them after control has left Go).
func cMalloc(n uintptr) unsafe.Pointer { return C.malloc(C.size_t(n)) }
func cFree(p unsafe.Pointer)           { C.free(p) }

func cAllocVoidPtrArray(n int) unsafe.Pointer {
	return C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(uintptr(0))))
}
func cVoidPtrSlice(mem unsafe.Pointer, n int) []unsafe.Pointer {
	return (*[1<<30 - 1]unsafe.Pointer)(mem)[:n:n]
}

// ffiTypePtr maps a TypeTag to the matching builtin ffi_type, returned
// opaquely. Total over the closed set; the error branch exists for tags a
// future revision might add without a native mapping.
func ffiTypePtr(t TypeTag) (unsafe.Pointer, error) {
	switch t {
	case TypeVoid:
		return unsafe.Pointer(&C.ffi_type_void), nil
	case TypeU8:
		return unsafe.Pointer(&C.ffi_type_uint8), nil
	case TypeI8:
		return unsafe.Pointer(&C.ffi_type_sint8), nil
	case TypeU16:
		return unsafe.Pointer(&C.ffi_type_uint16), nil
	case TypeI16:
		return unsafe.Pointer(&C.ffi_type_sint16), nil
	case TypeU32:
		return unsafe.Pointer(&C.ffi_type_uint32), nil
	case TypeI32:
		return unsafe.Pointer(&C.ffi_type_sint32), nil
	case TypeU64:
		return unsafe.Pointer(&C.ffi_type_uint64), nil
	case TypeI64:
		return unsafe.Pointer(&C.ffi_type_sint64), nil
	case TypeUsize, TypeIsize:
		// Pointer-sized integers on the build target.
		if unsafe.Sizeof(uintptr(0)) == 4 {
			if t == TypeUsize {
				return unsafe.Pointer(&C.ffi_type_uint32), nil
			}
			return unsafe.Pointer(&C.ffi_type_sint32), nil
		}
		if t == TypeUsize {
			return unsafe.Pointer(&C.ffi_type_uint64), nil
		}
		return unsafe.Pointer(&C.ffi_type_sint64), nil
	case TypeF32:
		return unsafe.Pointer(&C.ffi_type_float), nil
	case TypeF64:
		return unsafe.Pointer(&C.ffi_type_double), nil
	}
	return nil, fmt.Errorf("%w: %s has no native ABI mapping", ErrUnsupportedType, t)
}

// callInterface is a prepared libffi call descriptor. Both allocations live
// on the C heap: libffi keeps reading the type vector during ffi_call.
type callInterface struct {
	cif      *C.ffi_cif
	typesVec unsafe.Pointer // ffi_type*[nargs], may be nil
	nargs    int
}

// prepCIF builds a call descriptor for the declared signature. The caller
// owns the result and must free() it after the call.
func prepCIF(ret TypeTag, args []TypeTag) (*callInterface, error) {
	rty, err := ffiTypePtr(ret)
	if err != nil {
		return nil, err
	}
	n := len(args)
	var typesVec unsafe.Pointer
	if n > 0 {
		typesVec = C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(uintptr(0))))
		if typesVec == nil {
			return nil, fmt.Errorf("ffi_prep_cif: out of memory")
		}
		vec := (*[1<<30 - 1]*C.ffi_type)(typesVec)[:n:n]
		for i, a := range args {
			at, err := ffiTypePtr(a)
			if err != nil {
				C.free(typesVec)
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			vec[i] = (*C.ffi_type)(at)
		}
	}
	c := C.dlb_alloc_cif()
	if c == nil {
		if typesVec != nil {
			C.free(typesVec)
		}
		return nil, fmt.Errorf("ffi_prep_cif: out of memory")
	}
	st := C.ffi_prep_cif(c, C.FFI_DEFAULT_ABI, C.uint(n), (*C.ffi_type)(rty), (**C.ffi_type)(typesVec))
	if st != C.FFI_OK {
		C.free(unsafe.Pointer(c))
		if typesVec != nil {
			C.free(typesVec)
		}
		return nil, fmt.Errorf("%w: ffi_prep_cif status %d", ErrUnsupportedType, int(st))
	}
	return &callInterface{cif: c, typesVec: typesVec, nargs: n}, nil
}

func (ci *callInterface) free() {
	if ci == nil {
		return
	}
	if ci.cif != nil {
		C.free(unsafe.Pointer(ci.cif))
		ci.cif = nil
	}
	if ci.typesVec != nil {
		C.free(ci.typesVec)
		ci.typesVec = nil
	}
}

// cFFICall performs the foreign call. argv may be nil for zero-arg calls;
// rbuf must be at least 8 bytes (libffi widens small integer returns).
func cFFICall(ci *callInterface, fn, rbuf, argv unsafe.Pointer) {
	C.dlb_ffi_call(ci.cif, fn, rbuf, (*unsafe.Pointer)(argv))
}
