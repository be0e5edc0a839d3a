package recommend

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/domain/media"
	"github.com/kinokawa/discbox/internal/infra/lastfm"
)

// LastFmClient defines the Last.fm operations used by the recommender.
type LastFmClient interface {
	GetSimilarTracks(ctx context.Context, trackName, artistName string, limit int) ([]lastfm.SimilarTrack, error)
	GetChartTopTracks(ctx context.Context, limit int) ([]lastfm.ChartTrack, error)
}

// LastFmConfig holds the per-provider settings from configuration.
type LastFmConfig struct {
	APIKey         string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	CandidateCount int    `yaml:"candidate_count" mapstructure:"candidate_count" default:"5" validate:"gte=1"`
}

// LastFmRecommender proposes a track similar to the last played one, using
// the Last.fm similar-tracks endpoint and resolving the result to a playable
// item through Spotify search. Seeds without an artist fall back to the
// global chart.
type LastFmRecommender struct {
	lastfm  LastFmClient
	spotify SpotifyClient
	config  *LastFmConfig
}

// NewLastFmRecommender creates a Last.fm recommender from raw provider
// settings.
func NewLastFmRecommender(spotify SpotifyClient, settings map[string]any) (*LastFmRecommender, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}
	if len(settings) == 0 {
		return nil, errors.New("settings are required")
	}

	var config LastFmConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := lastfm.New(lastfm.Config{APIKey: config.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create last.fm client")
	}

	return &LastFmRecommender{
		lastfm:  client,
		spotify: spotify,
		config:  &config,
	}, nil
}

// Recommend implements Recommender.
func (r *LastFmRecommender) Recommend(ctx context.Context, last *media.Item) (*media.Item, error) {
	candidates := r.candidateQueries(ctx, last)
	if len(candidates) == 0 {
		return nil, nil
	}

	// Candidates come pre-ranked; take the first one Spotify can actually
	// resolve to a playable track.
	for _, q := range candidates {
		it, err := r.spotify.SearchTrack(ctx, q)
		if err != nil {
			zlog.Debug().Msgf("recommend: spotify search %q failed: %v", q, err)
			continue
		}
		if it == nil || it.URL == last.URL {
			continue
		}
		it.Requester = autoplayRequester
		return it, nil
	}

	return nil, nil
}

// Name implements Recommender.
func (r *LastFmRecommender) Name() string {
	return "lastfm"
}

func (r *LastFmRecommender) candidateQueries(ctx context.Context, last *media.Item) []string {
	if last.Artist != "" && last.Name != "" {
		similar, err := r.lastfm.GetSimilarTracks(ctx, last.Name, last.Artist, r.config.CandidateCount)
		if err != nil {
			zlog.Warn().Msgf("recommend: similar tracks lookup failed: %v", err)
		}
		if len(similar) > 0 {
			queries := make([]string, 0, len(similar))
			for _, s := range similar {
				queries = append(queries, searchQuery(s.Name, s.Artist))
			}
			return queries
		}
	}

	// No usable seed, fall back to the global chart.
	chart, err := r.lastfm.GetChartTopTracks(ctx, r.config.CandidateCount)
	if err != nil {
		zlog.Warn().Msgf("recommend: chart lookup failed: %v", err)
		return nil
	}
	queries := make([]string, 0, len(chart))
	for _, c := range chart {
		queries = append(queries, searchQuery(c.Name, c.Artist))
	}
	return queries
}

func searchQuery(trackName, artistName string) string {
	return fmt.Sprintf("track:%s artist:%s", trackName, artistName)
}
