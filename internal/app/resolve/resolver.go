// Package resolve maps media kinds to the strategies that fetch display
// metadata and audio streams for them.
package resolve

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// Errors
var (
	ErrUnknownKind = errors.New("no resolver for media kind")
	ErrDetails     = errors.New("failed to resolve details")
	ErrStream      = errors.New("failed to resolve stream")
)

// Resolver fetches display metadata and audio for one media kind.
type Resolver interface {
	// Details populates the item's name and duration in place.
	Details(ctx context.Context, it *media.Item) error
	// Stream opens the item's audio stream. The caller owns the stream and
	// must close it.
	Stream(ctx context.Context, it *media.Item) (io.ReadCloser, error)
	// Playlist expands a playlist locator into its items.
	Playlist(ctx context.Context, it *media.Item) ([]*media.Item, error)
}

// Registry dispatches to the strategy registered for an item's kind. It
// implements Resolver itself, so callers need not know which kinds exist.
type Registry struct {
	strategies map[media.Kind]Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[media.Kind]Resolver)}
}

// Register adds or replaces the strategy for a kind.
func (r *Registry) Register(kind media.Kind, res Resolver) {
	r.strategies[kind] = res
}

// Details implements Resolver.
func (r *Registry) Details(ctx context.Context, it *media.Item) error {
	s, err := r.strategyFor(it)
	if err != nil {
		return err
	}
	return s.Details(ctx, it)
}

// Stream implements Resolver.
func (r *Registry) Stream(ctx context.Context, it *media.Item) (io.ReadCloser, error) {
	s, err := r.strategyFor(it)
	if err != nil {
		return nil, err
	}
	return s.Stream(ctx, it)
}

// Playlist implements Resolver.
func (r *Registry) Playlist(ctx context.Context, it *media.Item) ([]*media.Item, error) {
	s, err := r.strategyFor(it)
	if err != nil {
		return nil, err
	}
	return s.Playlist(ctx, it)
}

func (r *Registry) strategyFor(it *media.Item) (Resolver, error) {
	s, ok := r.strategies[it.Kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "kind %q", it.Kind)
	}
	return s, nil
}
