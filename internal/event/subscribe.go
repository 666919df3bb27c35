package event

import (
	"fmt"
	"reflect"
)

// ID identifies one subscription. The zero ID is invalid and matches
// nothing.
type ID struct {
	typ reflect.Type
	seq uint64
}

// IsZero reports whether the ID was never issued.
func (id ID) IsZero() bool { return id.typ == nil }

func (id ID) String() string {
	if id.typ == nil {
		return "sub#0"
	}
	return fmt.Sprintf("sub#%d[%v]", id.seq, id.typ)
}

// Subscribe registers fn for messages of type M on behalf of host. The
// returned ID can be passed to Unsubscribe; the subscription also ends when
// the host dies, when the host is dropped, or, with WithOnce, after the
// first delivery.
//
// The host must not be the zero value of H. Nothing is registered when an
// error is returned.
func Subscribe[M any, H comparable](b *Bus[H], host H, fn Handler[H, M], opts ...SubscribeOption) (ID, error) {
	if b == nil {
		return ID{}, ErrNilBus
	}
	if fn == nil {
		return ID{}, ErrNilHandler
	}
	var zero H
	if host == zero {
		return ID{}, ErrZeroHost
	}
	return add(b, host, fn, 0, opts), nil
}

// SubscribeManual registers a hostless handler for messages of type M. The
// liveness oracle is never consulted for it; it lives until the returned
// Subscription is cancelled, the bus is cleared, or, with WithOnce, after
// the first delivery. WithActiveOnly has no effect on manual subscriptions.
func SubscribeManual[M any, H comparable](b *Bus[H], fn func(msg M) error, opts ...SubscribeOption) (*Subscription[H], error) {
	if b == nil {
		return nil, ErrNilBus
	}
	if fn == nil {
		return nil, ErrNilHandler
	}
	var zero H
	id := add(b, zero, func(_ H, msg M) error { return fn(msg) }, flagManual, opts)
	return &Subscription[H]{bus: b, id: id}, nil
}

// add appends the slot and issues its ID. WithSkipInFlight only arms the
// suppression flag while an emit of M is on the stack; outside dispatch the
// next emit is the first one, and it must be seen.
func add[M any, H comparable](b *Bus[H], host H, fn Handler[H, M], base slotFlags, opts []SubscribeOption) ID {
	var cfg subConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	flags := base
	if cfg.once {
		flags |= flagOnce
	}
	if cfg.activeOnly {
		flags |= flagActiveOnly
	}
	e := entryFor[M](b)
	if cfg.skipInFlight && e.depth > 0 {
		flags |= flagSkipInFlight
		e.armed = true
	}
	b.nextSeq++
	seq := b.nextSeq
	e.slots = append(e.slots, slot[H, M]{host: host, fn: fn, seq: seq, flags: flags})
	id := ID{typ: reflect.TypeOf((*M)(nil)).Elem(), seq: seq}
	b.log.Debug().Stringer("sub", id).Bool("manual", base&flagManual != 0).Msg("subscribed")
	return id
}

// Unsubscribe removes the subscription identified by id. It reports whether
// a live subscription was removed; stale and zero IDs return false. Safe to
// call from inside any handler, including the one being removed.
func Unsubscribe[H comparable](b *Bus[H], id ID) bool {
	if b == nil || id.typ == nil {
		return false
	}
	ae, ok := b.entries[id.typ]
	if !ok {
		return false
	}
	return ae.dropSeq(id.seq)
}

// Drop removes every subscription host holds for messages of type M and
// reports whether any existed.
func Drop[M any, H comparable](b *Bus[H], host H) bool {
	if b == nil {
		return false
	}
	ae, ok := b.entries[reflect.TypeOf((*M)(nil)).Elem()]
	if !ok {
		return false
	}
	return ae.dropHost(host)
}

// ListenerCount returns the number of live subscriptions for type M.
func ListenerCount[M any, H comparable](b *Bus[H]) int {
	if b == nil {
		return 0
	}
	ae, ok := b.entries[reflect.TypeOf((*M)(nil)).Elem()]
	if !ok {
		return 0
	}
	return ae.live()
}
