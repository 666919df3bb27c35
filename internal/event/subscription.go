package event

// Subscription is the cancellation ticket for a manual subscription.
type Subscription[H comparable] struct {
	bus  *Bus[H]
	id   ID
	done bool
}

// ID returns the underlying subscription ID.
func (s *Subscription[H]) ID() ID {
	if s == nil {
		return ID{}
	}
	return s.id
}

// Cancel removes the subscription. It is idempotent: the first call reports
// whether a live subscription was removed, every later call returns false.
// Safe to call from inside the subscription's own handler.
func (s *Subscription[H]) Cancel() bool {
	if s == nil || s.done {
		return false
	}
	s.done = true
	return Unsubscribe(s.bus, s.id)
}
