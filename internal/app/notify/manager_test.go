package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// memStream collects received notifications.
type memStream struct {
	mu       sync.Mutex
	received []*Notification
}

func (s *memStream) Send(n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, n)
	return nil
}

func (s *memStream) all() []*Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Notification, len(s.received))
	copy(out, s.received)
	return out
}

// slowStream blocks until released.
type slowStream struct {
	release chan struct{}
}

func (s *slowStream) Send(*Notification) error {
	<-s.release
	return nil
}

func TestManager_SubscribeUnsubscribe(t *testing.T) {
	m := NewManager()
	assert.Zero(t, m.SubscriberCount())

	a := m.Subscribe(&memStream{})
	b := m.Subscribe(&memStream{})
	assert.Equal(t, 2, m.SubscriberCount())
	assert.NotEqual(t, a, b)

	m.Unsubscribe(a)
	assert.Equal(t, 1, m.SubscriberCount())

	// Unknown IDs are ignored.
	m.Unsubscribe("not-a-subscription")
	assert.Equal(t, 1, m.SubscriberCount())

	m.Close()
	assert.Zero(t, m.SubscriberCount())
}

func TestManager_BroadcastReachesAllSubscribers(t *testing.T) {
	m := NewManager()
	first := &memStream{}
	second := &memStream{}
	m.Subscribe(first)
	m.Subscribe(second)

	m.Info("hello")

	for _, s := range []*memStream{first, second} {
		got := s.all()
		require.Len(t, got, 1)
		assert.Equal(t, KindInfo, got[0].Kind)
		assert.Equal(t, "hello", got[0].Text)
	}
}

func TestManager_SequenceNumbersIncrease(t *testing.T) {
	m := NewManager()
	s := &memStream{}
	m.Subscribe(s)

	m.Info("one")
	m.Error("two")
	m.InfoTitle("Paused", "three")

	got := s.all()
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.Equal(t, uint64(2), got[1].Seq)
	assert.Equal(t, uint64(3), got[2].Seq)
	assert.Equal(t, KindError, got[1].Kind)
	assert.Equal(t, "Paused", got[2].Title)
}

func TestManager_TrackNotifications(t *testing.T) {
	m := NewManager()
	s := &memStream{}
	m.Subscribe(s)

	it := &media.Item{URL: "a.mp3", Name: "Song A", Duration: time.Minute}
	m.TrackAdded(it, 3)
	m.TrackPlaying(it)

	got := s.all()
	require.Len(t, got, 2)

	assert.Equal(t, KindTrackAdded, got[0].Kind)
	assert.Same(t, it, got[0].Item)
	assert.Equal(t, 3, got[0].Position)
	assert.Contains(t, got[0].Text, "Song A")

	assert.Equal(t, KindTrackPlaying, got[1].Kind)
	assert.Same(t, it, got[1].Item)
}

func TestManager_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	m := NewManager()
	slow := &slowStream{release: make(chan struct{})}
	fast := &memStream{}
	m.Subscribe(slow)
	m.Subscribe(fast)

	start := time.Now()
	m.Info("ping")
	elapsed := time.Since(start)

	close(slow.release)

	assert.Less(t, elapsed, 2*time.Second)
	require.Len(t, fast.all(), 1)
}

func TestManager_BroadcastWithoutSubscribers(t *testing.T) {
	m := NewManager()
	m.Info("nobody listening")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "info", KindInfo.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "track_added", KindTrackAdded.String())
	assert.Equal(t, "track_playing", KindTrackPlaying.String())
}
