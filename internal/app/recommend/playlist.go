package recommend

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// PlaylistConfig holds the per-provider settings from configuration.
type PlaylistConfig struct {
	PlaylistURL string `yaml:"playlist_url" mapstructure:"playlist_url" validate:"required"`
	FetchCount  int    `yaml:"fetch_count" mapstructure:"fetch_count" default:"5" validate:"gte=1"`
}

// PlaylistRecommender proposes a random track from a configured playlist.
// It keeps a small cache of fetched tracks so consecutive recommendations do
// not each hit the API.
type PlaylistRecommender struct {
	spotify SpotifyClient
	cache   []*media.Item
	config  *PlaylistConfig
}

// NewPlaylistRecommender creates a playlist recommender from raw provider
// settings.
func NewPlaylistRecommender(spotify SpotifyClient, settings map[string]any) (*PlaylistRecommender, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config PlaylistConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &PlaylistRecommender{
		spotify: spotify,
		config:  &config,
	}, nil
}

// Recommend implements Recommender.
func (r *PlaylistRecommender) Recommend(ctx context.Context, last *media.Item) (*media.Item, error) {
	if len(r.cache) == 0 {
		items, err := r.spotify.PlaylistItemsRandom(ctx, r.config.PlaylistURL, r.config.FetchCount)
		if err != nil {
			zlog.Warn().Msgf("recommend: playlist fetch failed: %v", err)
			return nil, nil
		}
		r.cache = items
	}

	for len(r.cache) > 0 {
		it := r.cache[0]
		r.cache = r.cache[1:]
		if it.URL == last.URL {
			continue
		}
		it.Requester = autoplayRequester
		return it, nil
	}

	return nil, nil
}

// Name implements Recommender.
func (r *PlaylistRecommender) Name() string {
	return "playlist"
}
