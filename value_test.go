package dlbridge

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalKinds(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"null", `null`, Null},
		{"nonneg-integer-is-unsigned", `300`, Uint(300)},
		{"zero-is-unsigned", `0`, Uint(0)},
		{"negative-integer-is-signed", `-1`, Int(-1)},
		{"u64-max-survives", `18446744073709551615`, Uint(math.MaxUint64)},
		{"i64-min-survives", `-9223372036854775808`, Int(math.MinInt64)},
		{"fraction-is-float", `2.5`, Float(2.5)},
		{"exponent-is-float", `1e3`, Float(1000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tc.in), &v))
			require.Equal(t, tc.want, v)
		})
	}

	var v Value
	require.ErrorIs(t, json.Unmarshal([]byte(`"nope"`), &v), ErrTypeMismatch)
}

func TestValueMarshal(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null, `null`},
		{"unsigned", Uint(255), `255`},
		{"signed", Int(-7), `-7`},
		{"float", Float(2.5), `2.5`},
		{"nan-projects-to-null", Float(math.NaN()), `null`},
		{"inf-projects-to-null", Float(math.Inf(1)), `null`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(b))
		})
	}
}

func TestValueAccessors(t *testing.T) {
	t.Run("uint-of-nonnegative-int", func(t *testing.T) {
		u, err := Int(42).AsUint()
		require.NoError(t, err)
		require.Equal(t, uint64(42), u)
	})
	t.Run("uint-of-negative-int-fails", func(t *testing.T) {
		_, err := Int(-1).AsUint()
		require.ErrorIs(t, err, ErrTypeMismatch)
	})
	t.Run("uint-of-float-fails", func(t *testing.T) {
		_, err := Float(1.0).AsUint()
		require.ErrorIs(t, err, ErrTypeMismatch)
	})
	t.Run("int-of-small-uint", func(t *testing.T) {
		i, err := Uint(42).AsInt()
		require.NoError(t, err)
		require.Equal(t, int64(42), i)
	})
	t.Run("int-of-huge-uint-fails", func(t *testing.T) {
		_, err := Uint(math.MaxUint64).AsInt()
		require.ErrorIs(t, err, ErrTypeMismatch)
	})
	t.Run("float-of-any-number", func(t *testing.T) {
		f, err := Int(-3).AsFloat()
		require.NoError(t, err)
		require.Equal(t, -3.0, f)
		f, err = Uint(3).AsFloat()
		require.NoError(t, err)
		require.Equal(t, 3.0, f)
	})
	t.Run("float-of-null-fails", func(t *testing.T) {
		_, err := Null.AsFloat()
		require.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestCallRequestWireFormat(t *testing.T) {
	payload := `{"sym":"sqrt","args":[{"type":"f64","value":9}],"returnType":"f64"}`
	var req CallRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Equal(t, "sqrt", req.Symbol)
	require.Equal(t, "f64", req.ReturnType)
	require.Len(t, req.Args, 1)
	require.Equal(t, "f64", req.Args[0].Type)
	require.Equal(t, Uint(9), req.Args[0].Value)
}
