// Package recommend provides autoplay recommendation strategies.
package recommend

import (
	"context"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// Requester name stamped on recommended items.
const autoplayRequester = "autoplay"

// Recommender proposes a follow-up for the last played item. A nil item with
// a nil error means no recommendation. Implementations downgrade their
// internal failures to "no recommendation" with a log side-effect; errors
// never escape the chain.
type Recommender interface {
	Recommend(ctx context.Context, last *media.Item) (*media.Item, error)

	// Name returns the provider name used in configuration.
	Name() string
}

// SpotifyClient is the Spotify surface used by the providers to turn
// recommendation results into playable items.
type SpotifyClient interface {
	SearchTrack(ctx context.Context, query string) (*media.Item, error)
	PlaylistItemsRandom(ctx context.Context, playlistURL string, count int) ([]*media.Item, error)
}
