package wallet

import "sync"

// Subscription delivers wallet events to one consumer. It replaces the
// polling interval handle of older designs with an explicit object the
// controller owns and closes deterministically on reset.
type Subscription struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

func NewSubscription() *Subscription {
	return &Subscription{events: make(chan Event, 8)}
}

// Events returns the channel wallet events arrive on. The channel is closed
// when the subscription is closed.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close stops delivery. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// Emit delivers an event to the consumer. Backends call this from their
// notification source.
func (s *Subscription) Emit(ev Event) {
	s.send(ev)
}

// send delivers an event unless the subscription is closed or its buffer is
// full; a slow consumer drops events rather than blocking the emitter.
func (s *Subscription) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}
