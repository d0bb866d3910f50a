// value.go: the loosely-typed values exchanged with the embedding host.
//
// A Value carries a number (or null) without binding it to a native width or
// signedness; the declared TypeTag of the parameter it is bound to decides
// which accessor is legal. On the wire values are JSON numbers; decoding
// keeps integers out of float64 so full 64-bit magnitudes survive the trip.
package dlbridge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind is the representation class of a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindUint
	KindInt
	KindFloat
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUint:
		return "unsigned integer"
	case KindInt:
		return "signed integer"
	case KindFloat:
		return "float"
	}
	return "invalid"
}

// Value is a dynamically-typed host value: null or a number tagged by its
// representation class. The zero Value is null.
type Value struct {
	kind ValueKind
	u    uint64
	i    int64
	f    float64
}

// Null is the unit value: the result of a void call and the encoding of
// JSON null.
var Null = Value{}

func Uint(v uint64) Value   { return Value{kind: KindUint, u: v} }
func Int(v int64) Value     { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Kind reports the representation class.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the unit value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsUint extracts v as an unsigned integer. Signed values convert when
// non-negative; floats and null are a mismatch.
func (v Value) AsUint() (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.u, nil
	case KindInt:
		if v.i >= 0 {
			return uint64(v.i), nil
		}
		return 0, fmt.Errorf("%w: expected an unsigned integer, got negative %d", ErrTypeMismatch, v.i)
	}
	return 0, fmt.Errorf("%w: expected an unsigned integer, got %s", ErrTypeMismatch, v.kind)
}

// AsInt extracts v as a signed integer. Unsigned values convert when they fit
// in int64; floats and null are a mismatch.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindUint:
		if v.u <= math.MaxInt64 {
			return int64(v.u), nil
		}
		return 0, fmt.Errorf("%w: unsigned value %d overflows a signed integer", ErrTypeMismatch, v.u)
	}
	return 0, fmt.Errorf("%w: expected a signed integer, got %s", ErrTypeMismatch, v.kind)
}

// AsFloat extracts v as a float. Every numeric value converts; null is a
// mismatch.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindUint:
		return float64(v.u), nil
	}
	return 0, fmt.Errorf("%w: expected a number, got %s", ErrTypeMismatch, v.kind)
}

// String renders v the way it would appear on the wire.
func (v Value) String() string {
	switch v.kind {
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return "null"
}

// MarshalJSON encodes v as a JSON number or null. Non-finite floats encode
// as null: JSON has no representation for them, so the null projection is
// the defined behavior rather than an error.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindUint:
		return strconv.AppendUint(nil, v.u, 10), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return strconv.AppendFloat(nil, v.f, 'g', -1, 64), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON number or null. Non-negative integers become
// unsigned values, negative integers become signed values, and anything with
// a fraction or exponent becomes a float.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = Null
		return nil
	}
	if !strings.ContainsAny(s, ".eE") {
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			*v = Uint(u)
			return nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a JSON number", ErrTypeMismatch, s)
	}
	*v = Float(f)
	return nil
}
