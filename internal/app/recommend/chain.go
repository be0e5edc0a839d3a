package recommend

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// ProviderWithMetadata wraps a recommender with its display metadata.
type ProviderWithMetadata struct {
	Provider    Recommender
	DisplayName string
}

// Chain tries providers in order and returns the first recommendation. A
// provider that fails or has nothing to offer is skipped, so the chain as a
// whole never errors.
type Chain struct {
	providers []ProviderWithMetadata
}

// NewChain creates a provider chain.
func NewChain(providers []ProviderWithMetadata) *Chain {
	return &Chain{providers: providers}
}

// Recommend implements Recommender.
func (c *Chain) Recommend(ctx context.Context, last *media.Item) (*media.Item, error) {
	for i, pm := range c.providers {
		zlog.Debug().Msgf("recommend: trying provider: index=%d total=%d name=%s type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		it, err := pm.Provider.Recommend(ctx, last)
		if err != nil {
			zlog.Warn().Msgf("recommend: provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}
		if it == nil {
			zlog.Debug().Msgf("recommend: provider had nothing to offer: provider=%s", pm.DisplayName)
			continue
		}

		zlog.Info().Msgf("recommend: provider=%s item=%s", pm.DisplayName, it.DisplayName())
		return it, nil
	}

	return nil, nil
}

// Name implements Recommender.
func (c *Chain) Name() string {
	return "chain"
}
