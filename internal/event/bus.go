package event

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Bus dispatches typed messages to subscribed handlers. H is the host handle
// type subscriptions are scoped to. A Bus belongs to exactly one goroutine;
// see the package documentation for the threading contract.
type Bus[H comparable] struct {
	oracle  Liveness[H]
	entries map[reflect.Type]anyEntry[H]
	nextSeq uint64
	log     zerolog.Logger

	emits      uint64
	deliveries uint64
	evictions  uint64
}

// New creates a bus backed by the given liveness oracle. A nil oracle means
// every host is treated as alive and active forever.
func New[H comparable](oracle Liveness[H], opts ...Option) *Bus[H] {
	cfg := busConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if oracle == nil {
		oracle = immortal[H]{}
	}
	return &Bus[H]{
		oracle:  oracle,
		entries: make(map[reflect.Type]anyEntry[H]),
		log:     cfg.log,
	}
}

// entryFor returns the entry for M, creating it on first use. Entries are
// never removed, so subscription order within a type is stable for the life
// of the bus.
func entryFor[M any, H comparable](b *Bus[H]) *entry[H, M] {
	t := reflect.TypeOf((*M)(nil)).Elem()
	if ae, ok := b.entries[t]; ok {
		return ae.(*entry[H, M])
	}
	e := &entry[H, M]{}
	b.entries[t] = e
	return e
}

// Emit delivers msg to every eligible subscriber of type M, in registration
// order. It reports whether at least one handler ran. A handler error stops
// the pass immediately and is returned wrapped; earlier deliveries stand.
//
// Handlers may freely subscribe, unsubscribe, and emit while the pass runs.
// Subscribers added during the pass are reached before it ends unless they
// opted out with WithSkipInFlight.
func Emit[M any, H comparable](b *Bus[H], msg M) (bool, error) {
	if b == nil {
		return false, ErrNilBus
	}
	b.emits++
	ae, ok := b.entries[reflect.TypeOf((*M)(nil)).Elem()]
	if !ok {
		return false, nil
	}
	e := ae.(*entry[H, M])
	if len(e.slots) == 0 {
		return false, nil
	}

	e.depth++
	defer e.finishEmit()

	delivered := false
	for i := 0; i < len(e.slots); i++ {
		s := &e.slots[i]
		if s.flags&flagDead != 0 {
			continue
		}
		if s.flags&flagSkipInFlight != 0 {
			s.flags &^= flagSkipInFlight
			continue
		}
		if s.flags&flagManual == 0 {
			if !b.oracle.Alive(s.host) {
				b.evictions++
				i = e.removeCurrent(i)
				continue
			}
			if s.flags&flagActiveOnly != 0 && !b.oracle.Active(s.host) {
				continue
			}
		}
		// The handler may grow or tombstone e.slots, invalidating s. Copy
		// what the rest of the iteration needs before calling it.
		fn, host, once := s.fn, s.host, s.flags&flagOnce != 0
		delivered = true
		b.deliveries++
		if err := fn(host, msg); err != nil {
			return delivered, fmt.Errorf("event: %v handler: %w", reflect.TypeOf((*M)(nil)).Elem(), err)
		}
		if once {
			i = e.removeCurrent(i)
		}
	}
	return delivered, nil
}

// DropHost removes every host-scoped subscription held by host, across all
// message types. It reports whether anything was removed. Manual
// subscriptions are untouched.
func (b *Bus[H]) DropHost(host H) bool {
	dropped := false
	for _, ae := range b.entries {
		if ae.dropHost(host) {
			dropped = true
		}
	}
	return dropped
}

// Sweep eagerly evicts every slot whose host the oracle reports dead and
// returns the number evicted. Emit performs the same eviction lazily per
// type; Sweep is for callers that want stale slots gone now, typically at a
// simulation tick boundary.
func (b *Bus[H]) Sweep() int {
	evicted := 0
	for _, ae := range b.entries {
		evicted += ae.sweep(b.oracle)
	}
	if evicted > 0 {
		b.evictions += uint64(evicted)
		b.log.Debug().Int("evicted", evicted).Msg("swept dead subscriptions")
	}
	return evicted
}

// Clear removes every subscription of every type. Outstanding IDs and
// Subscriptions become stale; cancelling them is a harmless no-op. Clear
// must not be called from inside a handler.
func (b *Bus[H]) Clear() {
	for _, ae := range b.entries {
		ae.reset()
	}
	b.log.Debug().Msg("bus cleared")
}

// HasStaleListeners reports whether any host-scoped slot refers to a host
// the oracle considers dead. Useful as a leak check between Sweep calls.
func (b *Bus[H]) HasStaleListeners() bool {
	for _, ae := range b.entries {
		if ae.stale(b.oracle) {
			return true
		}
	}
	return false
}

// TotalListenerCount returns the number of live subscriptions across all
// message types.
func (b *Bus[H]) TotalListenerCount() int {
	n := 0
	for _, ae := range b.entries {
		n += ae.live()
	}
	return n
}

// Stats is a snapshot of bus activity counters.
type Stats struct {
	Emits      uint64 // Emit calls
	Deliveries uint64 // handler invocations
	Evictions  uint64 // slots dropped because their host died
	Types      int    // message types ever subscribed to
	Listeners  int    // live subscriptions right now
}

// Stats returns a snapshot of the bus counters.
func (b *Bus[H]) Stats() Stats {
	return Stats{
		Emits:      b.emits,
		Deliveries: b.deliveries,
		Evictions:  b.evictions,
		Types:      len(b.entries),
		Listeners:  b.TotalListenerCount(),
	}
}
