// library.go: ownership of one loaded dynamic library.
package dlbridge

import (
	"fmt"
	"unsafe"
)

// Library owns one mapped dynamic library for its whole lifetime. It is
// unloaded exactly once, either through Close or through the owning table's
// teardown. Caller obligation, not defended against internally: closing a
// library while a call through one of its symbols is in flight is undefined
// behavior, exactly as with raw dlclose.
type Library struct {
	path   string
	handle unsafe.Pointer
	closed bool
}

// OpenLibrary maps the dynamic library at path into the process. The mapping
// persists for the remaining process lifetime unless Close is called.
func OpenLibrary(path string) (*Library, error) {
	h, err := cDlopen(path)
	if err != nil {
		return nil, err
	}
	return &Library{path: path, handle: h}, nil
}

// Path returns the path or soname the library was opened with.
func (l *Library) Path() string { return l.path }

// Name identifies the resource class in a handle table.
func (l *Library) Name() string { return "dylib" }

// Symbol resolves an exported name to a callable address. The returned
// Symbol borrows the library's mapping: it is valid only until Close.
func (l *Library) Symbol(name string) (Symbol, error) {
	if l.closed {
		return Symbol{}, fmt.Errorf("%w: %q", ErrLibraryClosed, l.path)
	}
	addr, err := cDlsym(l.handle, name)
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{lib: l, name: name, addr: addr}, nil
}

// Call resolves symbol and invokes it with the declared signature. This is
// the end-to-end foreign-call path: per-call descriptor, marshalled cells,
// one native transfer, converted result.
func (l *Library) Call(symbol string, args []ArgumentSpec, ret TypeTag) (Value, error) {
	sym, err := l.Symbol(symbol)
	if err != nil {
		return Null, err
	}
	tags := make([]TypeTag, len(args))
	for i, a := range args {
		tags[i] = a.Type
	}
	ci, err := buildInterface(tags, ret)
	if err != nil {
		return Null, err
	}
	defer ci.free()
	cells, err := buildArgs(args)
	if err != nil {
		return Null, err
	}
	defer cells.free()
	return invoke(sym, ci, cells, ret)
}

// Close unmaps the library. A second Close reports ErrLibraryClosed; the
// unload happens at most once.
func (l *Library) Close() error {
	if l.closed {
		return fmt.Errorf("%w: %q", ErrLibraryClosed, l.path)
	}
	l.closed = true
	h := l.handle
	l.handle = nil
	return cDlclose(h)
}

// Symbol is a raw callable address resolved from a Library. Its validity is
// entirely borrowed from the library's lifetime; it holds no ownership.
type Symbol struct {
	lib  *Library
	name string
	addr unsafe.Pointer
}

// Name returns the export-table name the symbol was resolved from.
func (s Symbol) Name() string { return s.name }
