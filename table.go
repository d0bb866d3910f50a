// table.go: the generic handle table tracking open resources for the host.
package dlbridge

import "sync"

// Resource is anything the handle table can own on the host's behalf.
type Resource interface {
	// Name identifies the resource class (e.g. "dylib").
	Name() string
	// Close releases the resource. Called at most once by the table.
	Close() error
}

// HandleID is the opaque id a host uses to refer to a table entry.
type HandleID uint32

// Table maps HandleIDs to live resources. Inserts and removes are locked;
// the resources themselves carry their own concurrency contracts.
type Table struct {
	mu      sync.Mutex
	next    HandleID
	entries map[HandleID]Resource
	order   []HandleID
}

func NewTable() *Table {
	return &Table{entries: make(map[HandleID]Resource)}
}

// Insert registers r and returns its id. Ids are never reused.
func (t *Table) Insert(r Resource) HandleID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	id := t.next
	t.entries[id] = r
	t.order = append(t.order, id)
	return id
}

// Get looks up a live resource.
func (t *Table) Get(id HandleID) (Resource, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.entries[id]
	return r, ok
}

// Remove detaches a resource from the table without closing it. The caller
// takes over the single-close obligation.
func (t *Table) Remove(id HandleID) (Resource, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return r, ok
}

// Len reports the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// CloseAll closes every remaining resource in reverse insertion order and
// empties the table. The first close error is reported; later resources are
// still closed.
func (t *Table) CloseAll() error {
	t.mu.Lock()
	order := t.order
	entries := t.entries
	t.order = nil
	t.entries = make(map[HandleID]Resource)
	t.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		r, ok := entries[order[i]]
		if !ok {
			continue
		}
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
