package waiter

import (
	"sync/atomic"

	"herald/internal/event"
)

const defaultStreamDepth = 16

// Streamer forwards every message of type M into a buffered channel. The
// emit path never blocks on a slow consumer: when the buffer is full the
// message is dropped and counted.
type Streamer[M any] struct {
	ch      chan M
	cancel  func() bool
	dropped atomic.Uint64
	closed  bool
}

// Stream subscribes for all messages of type M on b, buffering up to depth
// of them. depth <= 0 selects a small default.
func Stream[M any, H comparable](b *event.Bus[H], depth int) (*Streamer[M], error) {
	if depth <= 0 {
		depth = defaultStreamDepth
	}
	s := &Streamer[M]{ch: make(chan M, depth)}
	sub, err := event.SubscribeManual(b, func(msg M) error {
		select {
		case s.ch <- msg:
		default:
			s.dropped.Add(1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cancel = sub.Cancel
	return s, nil
}

// C returns the receive side of the stream. It is closed by Close.
func (s *Streamer[M]) C() <-chan M { return s.ch }

// Dropped returns how many messages were discarded because the buffer was
// full. Safe from any goroutine.
func (s *Streamer[M]) Dropped() uint64 { return s.dropped.Load() }

// Close cancels the subscription and closes the channel. Call it from the
// bus goroutine. It reports whether the subscription was still live;
// closing twice is a no-op.
func (s *Streamer[M]) Close() bool {
	if s.closed {
		return false
	}
	s.closed = true
	live := s.cancel()
	close(s.ch)
	return live
}
