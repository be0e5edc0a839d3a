package recommend

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinokawa/discbox/internal/domain/media"
)

type stubProvider struct {
	item  *media.Item
	err   error
	calls int
}

func (p *stubProvider) Recommend(context.Context, *media.Item) (*media.Item, error) {
	p.calls++
	return p.item, p.err
}

func (p *stubProvider) Name() string { return "stub" }

func wrap(p Recommender, name string) ProviderWithMetadata {
	return ProviderWithMetadata{Provider: p, DisplayName: name}
}

func TestChain_FirstProviderWins(t *testing.T) {
	want := &media.Item{URL: "hit.mp3"}
	first := &stubProvider{item: want}
	second := &stubProvider{item: &media.Item{URL: "unused.mp3"}}
	chain := NewChain([]ProviderWithMetadata{wrap(first, "first"), wrap(second, "second")})

	got, err := chain.Recommend(context.Background(), &media.Item{URL: "seed.mp3"})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Zero(t, second.calls)
}

func TestChain_SkipsFailedProvider(t *testing.T) {
	want := &media.Item{URL: "hit.mp3"}
	broken := &stubProvider{err: errors.New("api down")}
	fallback := &stubProvider{item: want}
	chain := NewChain([]ProviderWithMetadata{wrap(broken, "broken"), wrap(fallback, "fallback")})

	got, err := chain.Recommend(context.Background(), &media.Item{URL: "seed.mp3"})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, broken.calls)
}

func TestChain_SkipsEmptyProvider(t *testing.T) {
	want := &media.Item{URL: "hit.mp3"}
	empty := &stubProvider{}
	fallback := &stubProvider{item: want}
	chain := NewChain([]ProviderWithMetadata{wrap(empty, "empty"), wrap(fallback, "fallback")})

	got, err := chain.Recommend(context.Background(), &media.Item{URL: "seed.mp3"})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestChain_AllProvidersExhausted(t *testing.T) {
	chain := NewChain([]ProviderWithMetadata{
		wrap(&stubProvider{err: errors.New("down")}, "broken"),
		wrap(&stubProvider{}, "empty"),
	})

	got, err := chain.Recommend(context.Background(), &media.Item{URL: "seed.mp3"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChain_NoProviders(t *testing.T) {
	chain := NewChain(nil)

	got, err := chain.Recommend(context.Background(), &media.Item{URL: "seed.mp3"})
	require.NoError(t, err)
	assert.Nil(t, got)
}
