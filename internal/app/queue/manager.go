package queue

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/app/notify"
	"github.com/kinokawa/discbox/internal/domain/media"
)

// ErrNoItem is returned when neither the queue nor the recommender can
// produce an item to play.
var ErrNoItem = errors.New("no item to play")

// DetailsResolver fills in display metadata for an item before it is
// enqueued.
type DetailsResolver interface {
	Details(ctx context.Context, it *media.Item) error
}

// Recommender proposes a follow-up for the last played item. A nil item with
// a nil error means no recommendation; implementations do not surface their
// internal failures.
type Recommender interface {
	Recommend(ctx context.Context, last *media.Item) (*media.Item, error)
}

// Manager owns the queue and the autoplay policy. All methods are safe for
// concurrent use; one mutex serializes every queue mutation.
type Manager struct {
	mu          sync.Mutex
	queue       *Queue
	autoPlay    bool
	lastPlayed  *media.Item
	resolver    DetailsResolver
	recommender Recommender
	notifier    notify.Sink
}

// NewManager creates a queue manager. recommender may be nil, in which case
// autoplay never produces an item.
func NewManager(resolver DetailsResolver, recommender Recommender, notifier notify.Sink, autoPlay bool) *Manager {
	return &Manager{
		queue:       New(),
		autoPlay:    autoPlay,
		resolver:    resolver,
		recommender: recommender,
		notifier:    notifier,
	}
}

// AddMedia resolves missing details and appends the item to the queue. The
// item is not enqueued when resolution fails. Unless silent, subscribers are
// told the item's 1-based queue position.
func (m *Manager) AddMedia(ctx context.Context, it *media.Item, silent bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !it.HasDetails() {
		if err := m.resolver.Details(ctx, it); err != nil {
			return errors.Wrapf(err, "failed to resolve %q", it.URL)
		}
	}

	m.queue.Enqueue(it)
	pos := m.queue.Len()
	zlog.Info().Msgf("queue: added %s at position %d", it.DisplayName(), pos)

	if !silent {
		m.notifier.TrackAdded(it, pos)
	}
	return nil
}

// NextItem removes and returns the next item to play, recording it as the
// last played item. With an empty queue it falls back to the recommender
// when autoplay is on and something has been played before; a recommended
// item is played directly and never enqueued.
func (m *Manager) NextItem(ctx context.Context) (*media.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.queue.DequeueFront(); ok {
		m.lastPlayed = it
		return it, nil
	}

	if !m.autoPlay || m.lastPlayed == nil || m.recommender == nil {
		return nil, ErrNoItem
	}

	rec, err := m.recommender.Recommend(ctx, m.lastPlayed)
	if err != nil {
		// Recommenders downgrade their own failures; anything that still
		// escapes is logged and treated as no recommendation.
		zlog.Warn().Msgf("queue: recommendation failed: %v", err)
		return nil, ErrNoItem
	}
	if rec == nil {
		return nil, ErrNoItem
	}

	zlog.Info().Msgf("queue: autoplay recommended %s", rec.DisplayName())
	m.lastPlayed = rec
	return rec, nil
}

// PeekNext returns the next queued item without consuming it.
func (m *Manager) PeekNext() (*media.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.PeekFront()
}

// LastPlayed returns the item most recently handed out for playback.
func (m *Manager) LastPlayed() (*media.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastPlayed == nil {
		return nil, false
	}
	return m.lastPlayed, true
}

// SetAutoPlay mutates the autoplay flag.
func (m *Manager) SetAutoPlay(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoPlay = enabled
}

// AutoPlay reads the autoplay flag.
func (m *Manager) AutoPlay() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoPlay
}

// Remove removes the given item from the queue. Items not in the queue are
// ignored.
func (m *Manager) Remove(it *media.Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.RemoveByIdentity(it)
}

// Move relocates a queued item.
func (m *Manager) Move(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.Move(from, to)
}

// Shuffle randomizes the queue order.
func (m *Manager) Shuffle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.Shuffle()
}

// Clear empties the queue.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.Clear()
}

// Len returns the number of queued items.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// Items returns a snapshot of the queued items in order.
func (m *Manager) Items() []*media.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Items()
}

// Names returns the display names of all queued items in order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Names()
}
