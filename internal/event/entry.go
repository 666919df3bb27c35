package event

// Handler is a host-scoped subscription callback. The host handle the
// subscription was registered under is passed back on every delivery, so
// handlers can be written once and bound to many hosts.
type Handler[H comparable, M any] func(host H, msg M) error

type slotFlags uint8

const (
	// flagOnce removes the slot after its first successful invocation.
	flagOnce slotFlags = 1 << iota
	// flagActiveOnly skips delivery while the oracle reports the host
	// alive but not active.
	flagActiveOnly
	// flagSkipInFlight suppresses exactly one delivery: the slot was added
	// while an emit of its type was on the stack and must not be visited
	// by that pass. Cleared by the first pass that sees it, or disarmed
	// when the stack unwinds before any pass did.
	flagSkipInFlight
	// flagManual marks a hostless slot; the oracle is never consulted.
	flagManual
	// flagDead marks a tombstone awaiting compaction.
	flagDead
)

type slot[H comparable, M any] struct {
	host  H
	fn    Handler[H, M]
	seq   uint64
	flags slotFlags
}

// entry holds the ordered slot sequence for one message type. depth counts
// the emit passes for this type currently on the stack; dirty records that
// tombstones exist and compaction is owed; armed records that a slot was
// given flagSkipInFlight somewhere in the current stack.
type entry[H comparable, M any] struct {
	slots []slot[H, M]
	depth int
	dirty bool
	armed bool
}

// anyEntry is the type-erased view the bus keeps in its registry. It covers
// every operation that does not need the concrete message type.
type anyEntry[H comparable] interface {
	dropHost(host H) bool
	dropSeq(seq uint64) bool
	sweep(o Liveness[H]) int
	stale(o Liveness[H]) bool
	live() int
	reset()
}

// deleteAt removes the slot at i preserving order. Only legal when no pass
// is iterating, or from the outermost pass itself via removeCurrent.
func (e *entry[H, M]) deleteAt(i int) {
	last := len(e.slots) - 1
	copy(e.slots[i:], e.slots[i+1:])
	e.slots[last] = slot[H, M]{}
	e.slots = e.slots[:last]
}

// tombstone marks the slot at i dead and drops its references so the host
// and handler can be collected before compaction runs.
func (e *entry[H, M]) tombstone(i int) {
	s := &e.slots[i]
	s.flags |= flagDead
	s.fn = nil
	var zero H
	s.host = zero
	e.dirty = true
}

// removeCurrent removes the slot at i on behalf of the running emit pass and
// returns the index the pass should resume from. The outermost pass owns the
// sequence shape and may delete physically; nested passes tombstone and
// leave compaction to it.
func (e *entry[H, M]) removeCurrent(i int) int {
	if e.depth == 1 {
		e.deleteAt(i)
		return i - 1
	}
	e.tombstone(i)
	return i
}

// finishEmit unwinds one emit pass. The outermost pass compacts any
// tombstones left behind by nested activity and disarms suppression flags
// no pass consumed.
func (e *entry[H, M]) finishEmit() {
	e.depth--
	if e.depth < 0 {
		panic("event: emit depth underflow")
	}
	if e.depth > 0 {
		return
	}
	if e.dirty {
		e.compact()
	}
	if e.armed {
		// Suppression binds only the passes that were just on the stack; a
		// pass aborted by a handler error can leave its flag unconsumed.
		for i := range e.slots {
			e.slots[i].flags &^= flagSkipInFlight
		}
		e.armed = false
	}
}

// compact filters tombstones out in place, preserving the order of the
// survivors, and zeroes the abandoned tail.
func (e *entry[H, M]) compact() {
	kept := e.slots[:0]
	for i := range e.slots {
		if e.slots[i].flags&flagDead == 0 {
			kept = append(kept, e.slots[i])
		}
	}
	for i := len(kept); i < len(e.slots); i++ {
		e.slots[i] = slot[H, M]{}
	}
	e.slots = kept
	e.dirty = false
}

// dropWhere removes every live slot matching the predicate, honoring the
// depth policy: physical removal when idle, tombstones while any pass of
// this type is in flight.
func (e *entry[H, M]) dropWhere(match func(*slot[H, M]) bool) bool {
	dropped := false
	for i := 0; i < len(e.slots); i++ {
		s := &e.slots[i]
		if s.flags&flagDead != 0 || !match(s) {
			continue
		}
		dropped = true
		if e.depth == 0 {
			e.deleteAt(i)
			i--
		} else {
			e.tombstone(i)
		}
	}
	return dropped
}

func (e *entry[H, M]) dropHost(host H) bool {
	return e.dropWhere(func(s *slot[H, M]) bool {
		return s.flags&flagManual == 0 && s.host == host
	})
}

func (e *entry[H, M]) dropSeq(seq uint64) bool {
	return e.dropWhere(func(s *slot[H, M]) bool {
		return s.seq == seq
	})
}

// sweep evicts every host-scoped slot whose host the oracle reports dead.
func (e *entry[H, M]) sweep(o Liveness[H]) int {
	evicted := 0
	for i := 0; i < len(e.slots); i++ {
		s := &e.slots[i]
		if s.flags&(flagDead|flagManual) != 0 {
			continue
		}
		if o.Alive(s.host) {
			continue
		}
		evicted++
		if e.depth == 0 {
			e.deleteAt(i)
			i--
		} else {
			e.tombstone(i)
		}
	}
	return evicted
}

func (e *entry[H, M]) stale(o Liveness[H]) bool {
	for i := range e.slots {
		s := &e.slots[i]
		if s.flags&(flagDead|flagManual) != 0 {
			continue
		}
		if !o.Alive(s.host) {
			return true
		}
	}
	return false
}

func (e *entry[H, M]) live() int {
	n := 0
	for i := range e.slots {
		if e.slots[i].flags&flagDead == 0 {
			n++
		}
	}
	return n
}

func (e *entry[H, M]) reset() {
	for i := range e.slots {
		e.slots[i] = slot[H, M]{}
	}
	e.slots = e.slots[:0]
	e.dirty = false
	e.armed = false
}
