package recommend

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/infra/config"
)

// NewChainFromConfig creates a provider chain from configuration. An empty
// provider list yields a nil chain, which disables autoplay recommendations.
func NewChainFromConfig(cfg *config.Config, spotify SpotifyClient) (*Chain, error) {
	if len(cfg.Recommend.Providers) == 0 {
		return nil, nil
	}
	if spotify == nil {
		return nil, errors.New("recommendation providers require a Spotify client")
	}

	var providers []ProviderWithMetadata
	for i, pcfg := range cfg.Recommend.Providers {
		var provider Recommender
		var err error

		switch pcfg.Type {
		case "lastfm":
			provider, err = NewLastFmRecommender(spotify, pcfg.Settings)
		case "playlist":
			provider, err = NewPlaylistRecommender(spotify, pcfg.Settings)
		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: pcfg.DisplayName,
		})
		zlog.Info().Msgf("recommend: registered provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, pcfg.DisplayName)
	}

	return NewChain(providers), nil
}
