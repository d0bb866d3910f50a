// marshal.go: from declared types and host values to native argument cells.
//
// Pure in behavior: no I/O, a function of its inputs plus the type tables.
// The cells and the argv vector live on the C heap because libffi reads them
// after control leaves Go.
package dlbridge

import (
	"fmt"
	"unsafe"
)

// ArgumentSpec pairs a declared native type with the host value bound to it.
// A call's argument list is an ordered sequence of these; order must match
// the native parameter order exactly.
type ArgumentSpec struct {
	Type  TypeTag
	Value Value
}

// argCells is the marshalled argument block for one call: one C-heap cell
// per argument, in declaration order, plus the void** vector libffi reads
// them through. Invariant: len(cells) equals the descriptor's argument count
// or the foreign call's behavior is undefined.
type argCells struct {
	cells []unsafe.Pointer
	argv  unsafe.Pointer // void*[len(cells)], nil when empty
}

func (a *argCells) free() {
	if a == nil {
		return
	}
	for _, c := range a.cells {
		if c != nil {
			cFree(c)
		}
	}
	a.cells = nil
	if a.argv != nil {
		cFree(a.argv)
		a.argv = nil
	}
}

// buildArgs marshals specs, in order, into native cells. Each cell is at
// least 8 bytes; only the declared width is written and libffi reads only
// that width back. Fails on the first representation-class mismatch.
func buildArgs(specs []ArgumentSpec) (*argCells, error) {
	out := &argCells{cells: make([]unsafe.Pointer, 0, len(specs))}
	for i, spec := range specs {
		sz := spec.Type.Size()
		if sz < 8 {
			sz = 8
		}
		buf := cMalloc(sz)
		if buf == nil {
			out.free()
			return nil, fmt.Errorf("marshal: out of memory")
		}
		out.cells = append(out.cells, buf)
		if err := spec.Type.writeCell(buf, spec.Value); err != nil {
			out.free()
			return nil, fmt.Errorf("arg %d (%s): %w", i, spec.Type, err)
		}
	}
	if n := len(out.cells); n > 0 {
		out.argv = cAllocVoidPtrArray(n)
		if out.argv == nil {
			out.free()
			return nil, fmt.Errorf("marshal: out of memory")
		}
		argv := cVoidPtrSlice(out.argv, n)
		copy(argv, out.cells)
	}
	return out, nil
}

// buildInterface constructs the calling-convention descriptor for the
// declared signature. Rebuilt per call: the declared types arrive with each
// request, and nothing is cached across calls.
func buildInterface(args []TypeTag, ret TypeTag) (*callInterface, error) {
	for i, a := range args {
		if a == TypeVoid {
			return nil, fmt.Errorf("arg %d: %w: void cannot be an argument type", i, ErrTypeMismatch)
		}
	}
	return prepCIF(ret, args)
}
