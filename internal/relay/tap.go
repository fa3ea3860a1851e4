package relay

import (
	"sync"

	"github.com/google/uuid"
)

// Tap fans boundary events out to any number of subscribers. Publishes are
// non-blocking: a subscriber whose channel is full misses events rather than
// stalling the polling loop. The console uses a tap to display live sentence
// counts without touching engine internals.
type Tap struct {
	mu          sync.Mutex
	subscribers map[string]chan BoundaryEvent
	closed      bool
}

// NewTap returns an empty Tap.
func NewTap() *Tap {
	return &Tap{subscribers: make(map[string]chan BoundaryEvent)}
}

// Subscribe creates a buffered event channel and returns its ID for later
// removal.
func (t *Tap) Subscribe() (string, <-chan BoundaryEvent) {
	id := uuid.NewString()
	ch := make(chan BoundaryEvent, 16)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(ch)
		return id, ch
	}
	t.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (t *Tap) Unsubscribe(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ch, ok := t.subscribers[id]; ok {
		close(ch)
		delete(t.subscribers, id)
	}
}

// Publish delivers an event to every subscriber that has room for it.
func (t *Tap) Publish(ev BoundaryEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop rather than block the relay path.
		}
	}
}

// Close closes all subscriber channels. Subsequent subscriptions receive an
// already-closed channel so readers unblock predictably during shutdown.
func (t *Tap) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, id)
	}
}
