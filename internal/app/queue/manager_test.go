package queue

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinokawa/discbox/internal/domain/media"
)

type spyResolver struct {
	err   error
	calls []*media.Item
}

func (r *spyResolver) Details(_ context.Context, it *media.Item) error {
	r.calls = append(r.calls, it)
	if r.err != nil {
		return r.err
	}
	it.Name = "resolved"
	it.Duration = 180e9
	return nil
}

type spyRecommender struct {
	item  *media.Item
	err   error
	calls []*media.Item
}

func (r *spyRecommender) Recommend(_ context.Context, last *media.Item) (*media.Item, error) {
	r.calls = append(r.calls, last)
	return r.item, r.err
}

type spySink struct {
	infos   []string
	titles  []string
	errs    []string
	added   []*media.Item
	addedAt []int
	playing []*media.Item
}

func (s *spySink) Info(text string)             { s.infos = append(s.infos, text) }
func (s *spySink) InfoTitle(title, text string) { s.titles = append(s.titles, title) }
func (s *spySink) Error(text string)            { s.errs = append(s.errs, text) }
func (s *spySink) TrackAdded(it *media.Item, position int) {
	s.added = append(s.added, it)
	s.addedAt = append(s.addedAt, position)
}
func (s *spySink) TrackPlaying(it *media.Item) { s.playing = append(s.playing, it) }

func TestManager_AddMedia_ResolvesDetails(t *testing.T) {
	resolver := &spyResolver{}
	sink := &spySink{}
	m := NewManager(resolver, nil, sink, false)

	it := &media.Item{Kind: media.KindFile, URL: "song.mp3"}
	require.NoError(t, m.AddMedia(context.Background(), it, false))

	require.Len(t, resolver.calls, 1)
	assert.Equal(t, "resolved", it.Name)
	assert.Equal(t, 1, m.Len())
	require.Len(t, sink.added, 1)
	assert.Same(t, it, sink.added[0])
	assert.Equal(t, 1, sink.addedAt[0])
}

func TestManager_AddMedia_SkipsResolutionWithDetails(t *testing.T) {
	resolver := &spyResolver{}
	m := NewManager(resolver, nil, &spySink{}, false)

	it := &media.Item{Kind: media.KindFile, URL: "song.mp3", Name: "Song", Duration: 200e9}
	require.NoError(t, m.AddMedia(context.Background(), it, false))

	assert.Empty(t, resolver.calls)
	assert.Equal(t, "Song", it.Name)
}

func TestManager_AddMedia_ResolutionFailure(t *testing.T) {
	resolver := &spyResolver{err: errors.New("not found")}
	sink := &spySink{}
	m := NewManager(resolver, nil, sink, false)

	err := m.AddMedia(context.Background(), &media.Item{Kind: media.KindFile, URL: "missing.mp3"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.mp3")
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, sink.added)
}

func TestManager_AddMedia_Silent(t *testing.T) {
	sink := &spySink{}
	m := NewManager(&spyResolver{}, nil, sink, false)

	require.NoError(t, m.AddMedia(context.Background(), &media.Item{URL: "a.mp3"}, true))
	assert.Empty(t, sink.added)
	assert.Equal(t, 1, m.Len())
}

func TestManager_NextItem_FIFO(t *testing.T) {
	m := NewManager(&spyResolver{}, nil, &spySink{}, false)
	ctx := context.Background()

	a := &media.Item{URL: "a.mp3", Name: "a", Duration: 1e9}
	b := &media.Item{URL: "b.mp3", Name: "b", Duration: 1e9}
	require.NoError(t, m.AddMedia(ctx, a, true))
	require.NoError(t, m.AddMedia(ctx, b, true))

	got, err := m.NextItem(ctx)
	require.NoError(t, err)
	assert.Same(t, a, got)

	last, ok := m.LastPlayed()
	require.True(t, ok)
	assert.Same(t, a, last)

	got, err = m.NextItem(ctx)
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, 0, m.Len())
}

func TestManager_NextItem_EmptyAutoplayOff(t *testing.T) {
	rec := &spyRecommender{item: &media.Item{URL: "rec.mp3"}}
	m := NewManager(&spyResolver{}, rec, &spySink{}, false)

	_, err := m.NextItem(context.Background())
	require.ErrorIs(t, err, ErrNoItem)
	assert.Empty(t, rec.calls)
}

func TestManager_NextItem_AutoplayNeedsHistory(t *testing.T) {
	rec := &spyRecommender{item: &media.Item{URL: "rec.mp3"}}
	m := NewManager(&spyResolver{}, rec, &spySink{}, true)

	// Nothing has played yet, so autoplay has no seed.
	_, err := m.NextItem(context.Background())
	require.ErrorIs(t, err, ErrNoItem)
	assert.Empty(t, rec.calls)
}

func TestManager_NextItem_AutoplayRecommends(t *testing.T) {
	recommended := &media.Item{URL: "rec.mp3", Name: "rec", Duration: 1e9}
	rec := &spyRecommender{item: recommended}
	m := NewManager(&spyResolver{}, rec, &spySink{}, true)
	ctx := context.Background()

	played := &media.Item{URL: "a.mp3", Name: "a", Duration: 1e9}
	require.NoError(t, m.AddMedia(ctx, played, true))
	_, err := m.NextItem(ctx)
	require.NoError(t, err)

	got, err := m.NextItem(ctx)
	require.NoError(t, err)
	assert.Same(t, recommended, got)
	require.Len(t, rec.calls, 1)
	assert.Same(t, played, rec.calls[0])

	// The recommendation becomes playback history but never enters the queue.
	assert.Equal(t, 0, m.Len())
	last, ok := m.LastPlayed()
	require.True(t, ok)
	assert.Same(t, recommended, last)
}

func TestManager_NextItem_RecommenderFailure(t *testing.T) {
	tests := []struct {
		name string
		rec  *spyRecommender
	}{
		{name: "error", rec: &spyRecommender{err: errors.New("api down")}},
		{name: "no item", rec: &spyRecommender{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(&spyResolver{}, tt.rec, &spySink{}, true)
			ctx := context.Background()

			require.NoError(t, m.AddMedia(ctx, &media.Item{URL: "a.mp3", Name: "a", Duration: 1e9}, true))
			_, err := m.NextItem(ctx)
			require.NoError(t, err)

			_, err = m.NextItem(ctx)
			require.ErrorIs(t, err, ErrNoItem)
		})
	}
}

func TestManager_NextItem_NilRecommender(t *testing.T) {
	m := NewManager(&spyResolver{}, nil, &spySink{}, true)
	ctx := context.Background()

	require.NoError(t, m.AddMedia(ctx, &media.Item{URL: "a.mp3", Name: "a", Duration: 1e9}, true))
	_, err := m.NextItem(ctx)
	require.NoError(t, err)

	_, err = m.NextItem(ctx)
	require.ErrorIs(t, err, ErrNoItem)
}

func TestManager_SetAutoPlay(t *testing.T) {
	m := NewManager(&spyResolver{}, nil, &spySink{}, false)
	assert.False(t, m.AutoPlay())
	m.SetAutoPlay(true)
	assert.True(t, m.AutoPlay())
}

func TestManager_QueueOperations(t *testing.T) {
	m := NewManager(&spyResolver{}, nil, &spySink{}, false)
	ctx := context.Background()

	a := &media.Item{URL: "a.mp3", Name: "a", Duration: 1e9}
	b := &media.Item{URL: "b.mp3", Name: "b", Duration: 1e9}
	c := &media.Item{URL: "c.mp3", Name: "c", Duration: 1e9}
	for _, it := range []*media.Item{a, b, c} {
		require.NoError(t, m.AddMedia(ctx, it, true))
	}

	m.Move(0, 2)
	assert.Equal(t, []string{"b", "c", "a"}, m.Names())

	assert.True(t, m.Remove(c))
	assert.Equal(t, []string{"b", "a"}, m.Names())

	next, ok := m.PeekNext()
	require.True(t, ok)
	assert.Same(t, b, next)
	assert.Equal(t, 2, m.Len())

	m.Clear()
	assert.Equal(t, 0, m.Len())
}
