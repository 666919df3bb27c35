// Package event provides an in-process, typed publish/subscribe bus for a
// single-threaded simulation engine.
//
// Messages are plain Go values keyed by their concrete type. Handlers
// register against one message type and are invoked synchronously, in
// registration order, when a value of that type is emitted:
//
//	bus := event.New[host.Handle](arena)
//	id, err := event.Subscribe(bus, bearer, func(h host.Handle, m AttackLanded) error {
//	    ...
//	    return nil
//	})
//	delivered, err := event.Emit(bus, AttackLanded{Attacker: a, Defender: d})
//
// Most subscriptions are scoped to a host: an opaque comparable handle whose
// liveness the bus checks through a Liveness oracle at delivery time. When
// the oracle reports a host dead, its slots are dropped lazily during the
// next emit of that type, or eagerly via Sweep. Handlers receive their host
// handle as the first argument, so a single function value can serve many
// hosts without per-host closures.
//
// SubscribeManual registers a handler with no host; the oracle is never
// consulted for it and only Cancel or Clear removes it.
//
// Emit is reentrant. A handler may subscribe, unsubscribe (itself included),
// emit the same or another type, or drop a whole host. Slots added during an
// emit of their own type are visited before that pass ends unless they were
// registered with WithSkipInFlight. Removals that would disturb a pass in
// flight are deferred as tombstones and compacted when the outermost pass
// unwinds, so registration order is preserved throughout.
//
// The bus performs no locking and no allocation on the emit path. All calls
// must come from the single goroutine that owns the bus.
package event
