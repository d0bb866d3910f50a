// Package dlbridge lets an embedding host call arbitrary native
// shared-library functions at runtime without statically known signatures.
//
// A host opens a library by path, then issues calls described entirely as
// data: a symbol name, an ordered list of declared scalar types with
// loosely-typed values bound to them, and a declared return type. dlbridge
// resolves the symbol, builds the matching libffi call descriptor, marshals
// the values into native argument cells, performs the foreign call, and
// converts the result back into a host value.
//
// The type vocabulary is a fixed closed set of scalar numeric types plus
// void. Structs by value, pointers/buffers, variadics, and callbacks are out
// of scope.
//
// The foreign call itself is inherently unsafe: a crash inside the callee is
// a process event, and no sandboxing is attempted. Everything around that
// single boundary (type resolution, marshalling, handle management, the
// capability gates) is ordinary safe Go.
package dlbridge

// Version is the dlbridge release string.
const Version = "0.1.0"
