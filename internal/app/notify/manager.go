package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// sendTimeout bounds how long a single subscriber may stall a broadcast.
const sendTimeout = 500 * time.Millisecond

// Stream delivers notifications to one subscriber.
type Stream interface {
	Send(*Notification) error
}

// subscription represents a subscriber's registration.
type subscription struct {
	id     string
	stream Stream
}

// Manager fans playback notifications out to all subscribed streams. It
// implements Sink so the player core can stay unaware of delivery surfaces.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription

	seqMu sync.Mutex
	seq   uint64
}

// NewManager creates a new notification manager with no subscribers.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe registers a stream and returns its subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{id: id, stream: stream}
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, id)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close drops all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}

// Info implements Sink.
func (m *Manager) Info(text string) {
	m.broadcast(&Notification{Kind: KindInfo, Text: text})
}

// InfoTitle implements Sink.
func (m *Manager) InfoTitle(title, text string) {
	m.broadcast(&Notification{Kind: KindInfo, Title: title, Text: text})
}

// Error implements Sink.
func (m *Manager) Error(text string) {
	m.broadcast(&Notification{Kind: KindError, Text: text})
}

// TrackAdded implements Sink.
func (m *Manager) TrackAdded(it *media.Item, position int) {
	m.broadcast(&Notification{
		Kind:     KindTrackAdded,
		Text:     fmt.Sprintf("Added %s at position %d", it.DisplayName(), position),
		Item:     it,
		Position: position,
	})
}

// TrackPlaying implements Sink.
func (m *Manager) TrackPlaying(it *media.Item) {
	m.broadcast(&Notification{
		Kind: KindTrackPlaying,
		Text: fmt.Sprintf("Now playing %s", it.DisplayName()),
		Item: it,
	})
}

// broadcast assigns a sequence number and sends the notification to every
// subscriber. Each send runs in its own goroutine with a timeout so a stuck
// subscriber cannot stall the player.
func (m *Manager) broadcast(n *Notification) {
	m.seqMu.Lock()
	m.seq++
	n.Seq = m.seq
	m.seqMu.Unlock()

	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(n)
			}()

			select {
			case <-done:
				// Send errors are ignored; a broken subscriber is expected
				// to unsubscribe itself.
			case <-ctx.Done():
			}
		}(sub)
	}
	wg.Wait()
}
