// Package object implements the per-client object table: registration
// of client-chosen ids, a minimum-version check helper, and
// destroy/delete_id bookkeeping.
package object

import "fmt"

// ServerIDBase is the first id in the server-allocated range
// [0xff000000, 0xffffffff], per §4.2.
const ServerIDBase uint32 = 0xff000000

// Resource is anything bound to a client object id: a surface, a buffer,
// a seat capability object, a shell role object, etc. Concrete packages
// implement this with their own state hanging off Data.
type Resource struct {
	ID        uint32
	Interface string
	Version   uint32
	Data      any

	// destroying marks a resource that has been asked to destroy itself
	// but is retained, deleted-but-tolerated, until DrainPending is called.
	destroying bool
}

// Table is one client's id -> Resource map. It is only ever touched from
// the loop thread (§5), so it needs no internal locking.
type Table struct {
	client  uint32
	entries map[uint32]*Resource
	pending []uint32 // ids awaiting a deferred delete_id event
}

// New creates an empty table for the given client identifier (used only
// for diagnostics/logging; it does not affect id allocation).
func New(client uint32) *Table {
	return &Table{client: client, entries: make(map[uint32]*Resource)}
}

// Insert registers a new object for a `new_id` argument. It is a protocol
// error (§4.2(i)) to reuse an id that is currently live.
func (t *Table) Insert(id uint32, iface string, version uint32, data any) (*Resource, error) {
	if existing, ok := t.entries[id]; ok && !existing.destroying {
		return nil, fmt.Errorf("object: id %d already in use by %s", id, existing.Interface)
	}
	r := &Resource{ID: id, Interface: iface, Version: version, Data: data}
	t.entries[id] = r
	return r, nil
}

// Lookup resolves an id to its resource. A nil return with ok=false for
// either an unknown id or a deleted-but-tolerated one (§3, Object
// lifecycle: "the server must tolerate a client using a deleted id until
// it receives delete_id") is treated identically by callers: a no-op,
// not a protocol error, for already-destroyed ids.
func (t *Table) Lookup(id uint32) (*Resource, bool) {
	r, ok := t.entries[id]
	if !ok || r.destroying {
		return nil, false
	}
	return r, true
}

// Destroy marks id as logically gone (deleted-but-tolerated) and queues
// a delete_id event to be flushed once the client has had a chance to
// acknowledge any in-flight messages still referencing it (§4.2(iii)).
func (t *Table) Destroy(id uint32) {
	r, ok := t.entries[id]
	if !ok {
		return
	}
	r.destroying = true
	t.pending = append(t.pending, id)
}

// DrainPending returns and clears the ids queued for delete_id emission,
// removing their entries from the table. The caller (the server loop)
// sends one wl_display.delete_id event per returned id.
func (t *Table) DrainPending() []uint32 {
	out := t.pending
	t.pending = nil
	for _, id := range out {
		delete(t.entries, id)
	}
	return out
}

// MinVersionOK reports whether the bound resource's version satisfies a
// request's minimum version requirement (§4.2(ii)).
func MinVersionOK(r *Resource, minVersion uint32) bool {
	return r.Version >= minVersion
}

// Range iterates all live (non-destroying) resources, for bulk teardown
// on disconnect (§5 Cancellation: "all of that client's resources are
// destroyed in one loop iteration").
func (t *Table) Range(fn func(*Resource)) {
	for _, r := range t.entries {
		if !r.destroying {
			fn(r)
		}
	}
}

// Len reports the number of live entries, mostly for tests/diagnostics.
func (t *Table) Len() int {
	n := 0
	for _, r := range t.entries {
		if !r.destroying {
			n++
		}
	}
	return n
}
