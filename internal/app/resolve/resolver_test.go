package resolve

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinokawa/discbox/internal/domain/media"
)

type fakeStrategy struct {
	details  int
	streams  int
	playlist int
}

func (s *fakeStrategy) Details(_ context.Context, it *media.Item) error {
	s.details++
	it.Name = "from fake"
	return nil
}

func (s *fakeStrategy) Stream(context.Context, *media.Item) (io.ReadCloser, error) {
	s.streams++
	return io.NopCloser(strings.NewReader("audio")), nil
}

func (s *fakeStrategy) Playlist(context.Context, *media.Item) ([]*media.Item, error) {
	s.playlist++
	return []*media.Item{{URL: "expanded.mp3"}}, nil
}

func TestRegistry_DispatchesByKind(t *testing.T) {
	r := NewRegistry()
	file := &fakeStrategy{}
	spotify := &fakeStrategy{}
	r.Register(media.KindFile, file)
	r.Register(media.KindSpotify, spotify)
	ctx := context.Background()

	it := &media.Item{Kind: media.KindSpotify, URL: "spotify:track:abc"}
	require.NoError(t, r.Details(ctx, it))
	assert.Equal(t, "from fake", it.Name)
	assert.Equal(t, 1, spotify.details)
	assert.Zero(t, file.details)

	stream, err := r.Stream(ctx, &media.Item{Kind: media.KindFile, URL: "a.mp3"})
	require.NoError(t, err)
	stream.Close()
	assert.Equal(t, 1, file.streams)

	items, err := r.Playlist(ctx, &media.Item{Kind: media.KindFile, URL: "dir"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, file.playlist)
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewRegistry()
	r.Register(media.KindFile, &fakeStrategy{})
	ctx := context.Background()
	it := &media.Item{Kind: media.Kind("radio"), URL: "somewhere"}

	err := r.Details(ctx, it)
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "radio")

	_, err = r.Stream(ctx, it)
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = r.Playlist(ctx, it)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	first := &fakeStrategy{}
	second := &fakeStrategy{}
	r.Register(media.KindFile, first)
	r.Register(media.KindFile, second)

	require.NoError(t, r.Details(context.Background(), &media.Item{Kind: media.KindFile}))
	assert.Zero(t, first.details)
	assert.Equal(t, 1, second.details)
}
