// Package host provides generation-counted handles for simulation entities.
//
// A Handle stays comparable and cheap to copy while the entity behind it can
// die at any time. The Arena that issued a handle answers liveness queries
// for it, which lets handles serve as weak references: holding one never
// keeps an entity alive, and a handle to a despawned entity is simply dead,
// even if its arena index has since been reused.
package host

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle refers to one spawned entity. The zero Handle is never issued and
// refers to nothing.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether the handle is the reserved zero value.
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	return fmt.Sprintf("host:%d@%d", h.index, h.gen)
}

type record struct {
	ref    string
	label  string
	gen    uint32
	alive  bool
	active bool
}

// Arena allocates handles and tracks the liveness and activity of the
// entities behind them. Indexes of despawned entities are reused with a
// bumped generation, so stale handles never resolve to the new occupant.
//
// An Arena belongs to a single goroutine.
type Arena struct {
	records []record
	free    []uint32
	count   int
}

// NewArena returns an empty arena. Index 0 is reserved so the zero Handle
// can never match a record.
func NewArena() *Arena {
	return &Arena{records: make([]record, 1)}
}

// Spawn allocates a live, active entity and returns its handle. The label
// is caller-facing naming; the entity also gets a unique ref for logs.
func (a *Arena) Spawn(label string) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.records = append(a.records, record{})
		idx = uint32(len(a.records) - 1)
	}
	r := &a.records[idx]
	r.gen++
	r.ref = uuid.New().String()
	r.label = label
	r.alive = true
	r.active = true
	a.count++
	return Handle{index: idx, gen: r.gen}
}

// Despawn kills the entity behind h and recycles its index. It reports
// whether h was live. Handles to the despawned entity stay dead forever.
func (a *Arena) Despawn(h Handle) bool {
	r := a.lookup(h)
	if r == nil {
		return false
	}
	r.alive = false
	r.active = false
	r.ref = ""
	r.label = ""
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// Alive reports whether h refers to a live entity.
func (a *Arena) Alive(h Handle) bool {
	return a.lookup(h) != nil
}

// Active reports whether h refers to a live entity that is currently
// active. Despawned entities are never active.
func (a *Arena) Active(h Handle) bool {
	r := a.lookup(h)
	return r != nil && r.active
}

// SetActive toggles the activity of a live entity and reports whether h was
// live. Activity gates nothing inside the arena; it exists for callers that
// distinguish "alive" from "able to act".
func (a *Arena) SetActive(h Handle, active bool) bool {
	r := a.lookup(h)
	if r == nil {
		return false
	}
	r.active = active
	return true
}

// Label returns the label h was spawned with, or "" for dead handles.
func (a *Arena) Label(h Handle) string {
	if r := a.lookup(h); r != nil {
		return r.label
	}
	return ""
}

// Ref returns the unique ref of the entity behind h, or "" for dead
// handles.
func (a *Arena) Ref(h Handle) string {
	if r := a.lookup(h); r != nil {
		return r.ref
	}
	return ""
}

// Len returns the number of live entities.
func (a *Arena) Len() int { return a.count }

func (a *Arena) lookup(h Handle) *record {
	if h.index == 0 || int(h.index) >= len(a.records) {
		return nil
	}
	r := &a.records[h.index]
	if r.gen != h.gen || !r.alive {
		return nil
	}
	return r
}
