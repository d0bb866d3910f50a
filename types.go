// types.go: the closed vocabulary of native scalar types.
//
// Each TypeTag has exactly one textual name, one libffi type (see the cgo
// layer), and one extraction rule from a host Value into an argument cell.
// The set is deliberately closed: the calling-convention layer needs the
// native type statically selected at every dispatch site, so extending the
// vocabulary means a new tag plus a matching branch in writeCell, readCell,
// and ffiTypePtr, not a new polymorphic implementation.
package dlbridge

import (
	"fmt"
	"unsafe"
)

// TypeTag identifies one supported native scalar type.
type TypeTag uint8

const (
	TypeVoid TypeTag = iota
	TypeU8
	TypeI8
	TypeU16
	TypeI16
	TypeU32
	TypeI32
	TypeU64
	TypeI64
	TypeUsize
	TypeIsize
	TypeF32
	TypeF64
)

var typeNames = map[string]TypeTag{
	"void":  TypeVoid,
	"u8":    TypeU8,
	"i8":    TypeI8,
	"u16":   TypeU16,
	"i16":   TypeI16,
	"u32":   TypeU32,
	"i32":   TypeI32,
	"u64":   TypeU64,
	"i64":   TypeI64,
	"usize": TypeUsize,
	"isize": TypeIsize,
	"f32":   TypeF32,
	"f64":   TypeF64,
}

// ParseType resolves a wire-level type name. Names are case-sensitive
// lowercase; anything outside the closed set fails with ErrUnknownType.
func ParseType(name string) (TypeTag, error) {
	t, ok := typeNames[name]
	if !ok {
		return TypeVoid, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

func (t TypeTag) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeU8:
		return "u8"
	case TypeI8:
		return "i8"
	case TypeU16:
		return "u16"
	case TypeI16:
		return "i16"
	case TypeU32:
		return "u32"
	case TypeI32:
		return "i32"
	case TypeU64:
		return "u64"
	case TypeI64:
		return "i64"
	case TypeUsize:
		return "usize"
	case TypeIsize:
		return "isize"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	}
	return fmt.Sprintf("TypeTag(%d)", uint8(t))
}

// Size is the native size of t in bytes on the build target. void is 0.
func (t TypeTag) Size() uintptr {
	switch t {
	case TypeU8, TypeI8:
		return 1
	case TypeU16, TypeI16:
		return 2
	case TypeU32, TypeI32, TypeF32:
		return 4
	case TypeU64, TypeI64, TypeF64:
		return 8
	case TypeUsize, TypeIsize:
		return unsafe.Sizeof(uintptr(0))
	}
	return 0
}

// writeCell stores v into dst as the native representation of t. Narrowing
// truncates through the Go conversion for the declared width (u8 from 300
// yields 44); that silent-truncation policy is a pinned contract, not an
// oversight. Only a representation-class mismatch fails.
func (t TypeTag) writeCell(dst unsafe.Pointer, v Value) error {
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64, TypeUsize:
		x, err := v.AsUint()
		if err != nil {
			return err
		}
		switch t {
		case TypeU8:
			*(*uint8)(dst) = uint8(x)
		case TypeU16:
			*(*uint16)(dst) = uint16(x)
		case TypeU32:
			*(*uint32)(dst) = uint32(x)
		case TypeU64:
			*(*uint64)(dst) = x
		case TypeUsize:
			*(*uint)(dst) = uint(x)
		}
	case TypeI8, TypeI16, TypeI32, TypeI64, TypeIsize:
		x, err := v.AsInt()
		if err != nil {
			return err
		}
		switch t {
		case TypeI8:
			*(*int8)(dst) = int8(x)
		case TypeI16:
			*(*int16)(dst) = int16(x)
		case TypeI32:
			*(*int32)(dst) = int32(x)
		case TypeI64:
			*(*int64)(dst) = x
		case TypeIsize:
			*(*int)(dst) = int(x)
		}
	case TypeF32, TypeF64:
		f, err := v.AsFloat()
		if err != nil {
			return err
		}
		if t == TypeF32 {
			*(*float32)(dst) = float32(f)
		} else {
			*(*float64)(dst) = f
		}
	case TypeVoid:
		return fmt.Errorf("%w: void cannot be an argument type", ErrTypeMismatch)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return nil
}

// readCell converts the native value in src back into a host Value. void
// discards the buffer and yields Null.
func (t TypeTag) readCell(src unsafe.Pointer) Value {
	switch t {
	case TypeU8:
		return Uint(uint64(*(*uint8)(src)))
	case TypeU16:
		return Uint(uint64(*(*uint16)(src)))
	case TypeU32:
		return Uint(uint64(*(*uint32)(src)))
	case TypeU64:
		return Uint(*(*uint64)(src))
	case TypeUsize:
		return Uint(uint64(*(*uint)(src)))
	case TypeI8:
		return Int(int64(*(*int8)(src)))
	case TypeI16:
		return Int(int64(*(*int16)(src)))
	case TypeI32:
		return Int(int64(*(*int32)(src)))
	case TypeI64:
		return Int(*(*int64)(src))
	case TypeIsize:
		return Int(int64(*(*int)(src)))
	case TypeF32:
		return Float(float64(*(*float32)(src)))
	case TypeF64:
		return Float(*(*float64)(src))
	}
	return Null
}
