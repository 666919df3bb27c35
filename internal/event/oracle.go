package event

// Liveness answers whether a host handle still refers to a live host, and
// whether that host is currently eligible to receive gated deliveries. The
// bus consults it at delivery time; it never stores the answers.
//
// Alive must be safe to call with handles that were retired long ago.
// Active is only consulted for hosts that are alive.
type Liveness[H comparable] interface {
	Alive(host H) bool
	Active(host H) bool
}

// immortal is the oracle used when New is given nil: every host is alive and
// active, so slots are only ever removed explicitly.
type immortal[H comparable] struct{}

func (immortal[H]) Alive(H) bool  { return true }
func (immortal[H]) Active(H) bool { return true }
