package event

import "errors"

var (
	// ErrNilBus is returned when a package-level operation is given a nil bus.
	ErrNilBus = errors.New("event: nil bus")

	// ErrNilHandler is returned by Subscribe and SubscribeManual when the
	// handler function is nil.
	ErrNilHandler = errors.New("event: nil handler")

	// ErrZeroHost is returned by Subscribe when the host is the zero value
	// of its type. The zero handle is reserved as "no host"; use
	// SubscribeManual for subscriptions that should outlive any host.
	ErrZeroHost = errors.New("event: zero host")
)
