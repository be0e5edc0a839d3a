package resolve

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// SpotifyClient is the surface of the Spotify API client the resolver needs.
type SpotifyClient interface {
	Track(ctx context.Context, locator string) (*media.Item, error)
	PreviewURL(ctx context.Context, locator string) (string, error)
	PlaylistItems(ctx context.Context, locator string) ([]*media.Item, error)
}

// SpotifyResolver resolves Spotify track and playlist locators. Audio comes
// from the track's preview clip; full-stream delivery needs a licensed
// playback SDK and is out of reach for an API client.
type SpotifyResolver struct {
	client SpotifyClient
	http   *http.Client
}

// NewSpotifyResolver creates a Spotify resolver.
func NewSpotifyResolver(client SpotifyClient) *SpotifyResolver {
	return &SpotifyResolver{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Details implements Resolver.
func (r *SpotifyResolver) Details(ctx context.Context, it *media.Item) error {
	t, err := r.client.Track(ctx, it.URL)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "lookup %s", it.URL), ErrDetails)
	}

	if it.Name == "" {
		it.Name = t.Name
	}
	if it.Artist == "" {
		it.Artist = t.Artist
	}
	if it.Duration == 0 {
		it.Duration = t.Duration
	}
	if it.ImageURL == "" {
		it.ImageURL = t.ImageURL
	}
	return nil
}

// Stream implements Resolver.
func (r *SpotifyResolver) Stream(ctx context.Context, it *media.Item) (io.ReadCloser, error) {
	previewURL, err := r.client.PreviewURL(ctx, it.URL)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "preview for %s", it.URL), ErrStream)
	}
	if previewURL == "" {
		return nil, errors.Mark(errors.Newf("no preview clip for %s", it.DisplayName()), ErrStream)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "build preview request"), ErrStream)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "fetch preview"), ErrStream)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Mark(errors.Newf("preview fetch returned %d", resp.StatusCode), ErrStream)
	}
	return resp.Body, nil
}

// Playlist implements Resolver.
func (r *SpotifyResolver) Playlist(ctx context.Context, it *media.Item) ([]*media.Item, error) {
	items, err := r.client.PlaylistItems(ctx, it.URL)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "playlist %s", it.URL), ErrDetails)
	}
	for _, t := range items {
		t.Requester = it.Requester
	}
	return items, nil
}
