package player

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/app/notify"
	"github.com/kinokawa/discbox/internal/domain/media"
)

// ErrBackendOp is returned when the audio backend reports that a transport
// operation failed. Backend failures are not retried.
var ErrBackendOp = errors.New("audio backend reported failure")

// Backend is the opaque audio output resource. Play starts emitting the
// given stream; the boolean operations return false to signal failure.
type Backend interface {
	Play(stream io.ReadCloser, begin time.Duration) error
	Pause() bool
	Resume() bool
	Stop() bool
}

// QueueSource supplies items to play.
type QueueSource interface {
	NextItem(ctx context.Context) (*media.Item, error)
	PeekNext() (*media.Item, bool)
	LastPlayed() (*media.Item, bool)
}

// StreamResolver opens the audio stream for an item.
type StreamResolver interface {
	Stream(ctx context.Context, it *media.Item) (io.ReadCloser, error)
}

// Handler implements the subset of transport operations meaningful in one
// player state. Operations that make no sense in a state inherit a no-op.
type Handler interface {
	Play(ctx context.Context) error
	Stop(ctx context.Context, silent bool) error
	Pause(ctx context.Context) error
}

// noopHandler provides the default no-op behaviour for unsupported
// operations. A no-op succeeds, so the controller still commits the
// operation's target state.
type noopHandler struct{}

func (noopHandler) Play(context.Context) error       { return nil }
func (noopHandler) Stop(context.Context, bool) error { return nil }
func (noopHandler) Pause(context.Context) error      { return nil }

// handlerDeps bundles the collaborators shared by all state handlers.
type handlerDeps struct {
	queue    QueueSource
	resolver StreamResolver
	backend  Backend
	notifier notify.Sink
	status   notify.Status
}

// idleHandler starts playback of the next item. Stop and pause are no-ops
// since nothing is playing.
type idleHandler struct {
	noopHandler
	deps *handlerDeps
}

func (h idleHandler) Play(ctx context.Context) error {
	it, err := h.deps.queue.NextItem(ctx)
	if err != nil {
		return err
	}

	stream, err := h.deps.resolver.Stream(ctx, it)
	if err != nil {
		return err
	}

	if err := h.deps.backend.Play(stream, it.Begin); err != nil {
		return errors.Wrapf(ErrBackendOp, "play %s: %v", it.DisplayName(), err)
	}

	zlog.Info().Msgf("player: now playing %s (%s)", it.DisplayName(), it.DisplayDuration())
	h.deps.notifier.TrackPlaying(it)
	h.deps.status.SetBanner("Now playing: " + it.DisplayName())
	return nil
}

// playingHandler suspends or stops active output. Play is a no-op so a
// repeated play call cannot double-start the backend.
type playingHandler struct {
	noopHandler
	deps *handlerDeps
}

func (h playingHandler) Stop(ctx context.Context, silent bool) error {
	return stopPlayback(h.deps, silent)
}

func (h playingHandler) Pause(ctx context.Context) error {
	if !h.deps.backend.Pause() {
		return errors.Wrap(ErrBackendOp, "pause")
	}
	if last, ok := h.deps.queue.LastPlayed(); ok {
		h.deps.notifier.InfoTitle("Paused", last.DisplayName())
		h.deps.status.SetBanner("Paused: " + last.DisplayName())
	} else {
		h.deps.notifier.Info("Paused")
	}
	return nil
}

// pausedHandler resumes or stops suspended output. Pause is a no-op since
// output is already suspended.
type pausedHandler struct {
	noopHandler
	deps *handlerDeps
}

func (h pausedHandler) Play(ctx context.Context) error {
	if !h.deps.backend.Resume() {
		return errors.Wrap(ErrBackendOp, "resume")
	}
	if last, ok := h.deps.queue.LastPlayed(); ok {
		h.deps.notifier.InfoTitle("Resumed", last.DisplayName())
		h.deps.status.SetBanner("Now playing: " + last.DisplayName())
	} else {
		h.deps.notifier.Info("Resumed")
	}
	return nil
}

func (h pausedHandler) Stop(ctx context.Context, silent bool) error {
	return stopPlayback(h.deps, silent)
}

// stopPlayback is shared by the playing and paused handlers. The queue is
// only peeked here to refresh the banner; advancing is the idle handler's
// job when playback is restarted.
func stopPlayback(deps *handlerDeps, silent bool) error {
	if !deps.backend.Stop() {
		return errors.Wrap(ErrBackendOp, "stop")
	}

	if !silent {
		if last, ok := deps.queue.LastPlayed(); ok {
			deps.notifier.InfoTitle("Stopped", last.DisplayName())
		} else {
			deps.notifier.Info("Stopped")
		}
	}

	if next, ok := deps.queue.PeekNext(); ok {
		deps.status.SetBanner("Up next: " + next.DisplayName())
	} else {
		deps.status.ClearBanner()
	}
	return nil
}
