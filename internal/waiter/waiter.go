// Package waiter bridges bus messages to goroutines other than the one that
// owns the bus. The bus itself is single-threaded; a waiter subscribes on
// the owning goroutine and hands messages over a channel, which is the only
// crossing point.
//
// Construct waiters before the engine goroutine starts, or from inside it.
package waiter

import (
	"context"

	"herald/internal/event"
)

// Waiter delivers the first message of type M emitted after it was created.
type Waiter[M any] struct {
	ch     chan M
	cancel func() bool
}

// First subscribes for a single message of type M on b. The subscription
// consumes itself on delivery.
func First[M any, H comparable](b *event.Bus[H]) (*Waiter[M], error) {
	w := &Waiter[M]{ch: make(chan M, 1)}
	sub, err := event.SubscribeManual(b, func(msg M) error {
		w.ch <- msg
		return nil
	}, event.WithOnce())
	if err != nil {
		return nil, err
	}
	w.cancel = sub.Cancel
	return w, nil
}

// Wait blocks until the message arrives or ctx is done. On ctx expiry it
// returns the zero M and the context error; the subscription stays armed
// and a later Wait can still receive.
func (w *Waiter[M]) Wait(ctx context.Context) (M, error) {
	select {
	case msg := <-w.ch:
		return msg, nil
	case <-ctx.Done():
		var zero M
		return zero, ctx.Err()
	}
}

// Cancel disarms the waiter. Call it from the bus goroutine. It reports
// whether the subscription was still live; after delivery it is a no-op.
func (w *Waiter[M]) Cancel() bool {
	return w.cancel()
}
