package transport

import (
	"errors"
	"sync"

	"github.com/cory-johannsen/scrawl/internal/game/event"
)

var (
	// ErrSinkClosed is returned when pushing to a closed sink.
	ErrSinkClosed = errors.New("connection sink closed")
	// ErrSinkFull is returned when the outbound buffer is full; the event is
	// dropped rather than blocking a room worker.
	ErrSinkFull = errors.New("connection sink full")
)

// connSink buffers outbound events between room workers and one connection's
// write pump. Push never blocks.
type connSink struct {
	ch     chan event.Event
	closed chan struct{}
	once   sync.Once
}

func newConnSink(buffer int) *connSink {
	return &connSink{
		ch:     make(chan event.Event, buffer),
		closed: make(chan struct{}),
	}
}

// Push enqueues an event for delivery.
func (s *connSink) Push(ev event.Event) error {
	select {
	case <-s.closed:
		return ErrSinkClosed
	default:
	}
	select {
	case s.ch <- ev:
		return nil
	case <-s.closed:
		return ErrSinkClosed
	default:
		return ErrSinkFull
	}
}

// Close marks the sink closed and wakes the write pump. Idempotent.
func (s *connSink) Close() {
	s.once.Do(func() { close(s.closed) })
}
