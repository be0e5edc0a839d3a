package player

import "sync"

// EventType represents a backend event type.
type EventType int

const (
	EventBackendIdle  EventType = iota // Backend ran out of data
	EventBackendError                  // Backend failed mid-stream
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventBackendIdle:
		return "backend_idle"
	case EventBackendError:
		return "backend_error"
	default:
		return "unknown"
	}
}

// Event carries one backend notification.
type Event struct {
	Type EventType
	Err  error // Set for EventBackendError
}

// Bus carries backend notifications to the state machine. It is scoped to
// one player instance. Handlers run synchronously in subscription order;
// Publish returns only after every handler for the event has run to
// completion, so a single publisher observes strictly ordered delivery.
type Bus struct {
	mu       sync.Mutex
	handlers map[EventType][]func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]func(Event))}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t EventType, fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish dispatches the event to all handlers registered for its type.
// The bus lock is not held while handlers run, so handlers may publish
// further events or subscribe.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]func(Event), len(b.handlers[e.Type]))
	copy(handlers, b.handlers[e.Type])
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}
