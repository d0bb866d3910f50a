// invoke.go: the one irreducibly unsafe operation in the package.
package dlbridge

import "fmt"

// invoke transfers control into native code through a prepared descriptor
// and a resolved symbol, then converts the natively-typed result back into a
// host Value (void discards the return slot and yields Null).
//
// Trust boundary. Everything observable about this call, from the symbol's
// true signature to whether it returns at all, is outside the host's safety
// envelope. A segmentation fault or native abort inside the callee is a
// process event, not an error this function can report. The call also blocks the calling goroutine for the
// callee's full duration; a foreign call cannot be safely interrupted
// without native-side cooperation, so no timeout or cancellation exists.
//
// Preconditions (the callers in this package uphold them): ci was built from
// the same ordered type list as args, and sym's library has not been closed.
func invoke(sym Symbol, ci *callInterface, args *argCells, ret TypeTag) (Value, error) {
	sz := ret.Size()
	if sz < 8 {
		// libffi widens small integer returns to a full register.
		sz = 8
	}
	rbuf := cMalloc(sz)
	if rbuf == nil {
		return Null, fmt.Errorf("invoke: out of memory")
	}
	defer cFree(rbuf)
	cFFICall(ci, sym.addr, rbuf, args.argv)
	return ret.readCell(rbuf), nil
}
