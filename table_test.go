package dlbridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	id     string
	closed int
	log    *[]string
	err    error
}

func (f *fakeResource) Name() string { return "fake" }
func (f *fakeResource) Close() error {
	f.closed++
	if f.log != nil {
		*f.log = append(*f.log, f.id)
	}
	return f.err
}

func TestTableInsertGetRemove(t *testing.T) {
	tbl := NewTable()
	a := &fakeResource{id: "a"}
	b := &fakeResource{id: "b"}

	ida := tbl.Insert(a)
	idb := tbl.Insert(b)
	require.NotEqual(t, ida, idb)
	require.Equal(t, 2, tbl.Len())

	got, ok := tbl.Get(ida)
	require.True(t, ok)
	require.Same(t, a, got)

	removed, ok := tbl.Remove(ida)
	require.True(t, ok)
	require.Same(t, a, removed)
	require.Equal(t, 0, a.closed) // Remove does not close
	require.Equal(t, 1, tbl.Len())

	_, ok = tbl.Get(ida)
	require.False(t, ok)
	_, ok = tbl.Remove(ida)
	require.False(t, ok)
}

func TestTableCloseAllReverseOrder(t *testing.T) {
	tbl := NewTable()
	var order []string
	a := &fakeResource{id: "a", log: &order}
	b := &fakeResource{id: "b", log: &order}
	c := &fakeResource{id: "c", log: &order}
	tbl.Insert(a)
	idb := tbl.Insert(b)
	tbl.Insert(c)

	// Removed entries are the caller's problem; CloseAll must skip them.
	_, _ = tbl.Remove(idb)

	require.NoError(t, tbl.CloseAll())
	require.Equal(t, []string{"c", "a"}, order)
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, 0, b.closed)
	require.Equal(t, 1, a.closed)

	// Idempotent on an empty table.
	require.NoError(t, tbl.CloseAll())
	require.Equal(t, 1, a.closed)
}

func TestTableCloseAllFirstError(t *testing.T) {
	tbl := NewTable()
	errBoom := errors.New("boom")
	a := &fakeResource{id: "a", err: errBoom}
	b := &fakeResource{id: "b"}
	tbl.Insert(a)
	tbl.Insert(b)

	require.ErrorIs(t, tbl.CloseAll(), errBoom)
	require.Equal(t, 1, a.closed)
	require.Equal(t, 1, b.closed)
}
