// Package audio provides the beep-based audio backend.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/app/player"
)

// Backend plays mp3 streams through the system speaker. Completion and
// mid-stream failures are reported on the player's event bus.
type Backend struct {
	mu sync.Mutex

	bus         *player.Bus
	sampleRate  beep.SampleRate
	initialized bool

	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	source   io.Closer
}

// NewBackend creates a backend publishing to the given bus.
func NewBackend(bus *player.Bus) *Backend {
	return &Backend{
		bus:        bus,
		sampleRate: beep.SampleRate(44100),
	}
}

// Play decodes the stream and starts speaker output. Any previous output is
// cleared first without firing its completion event.
func (b *Backend) Play(stream io.ReadCloser, begin time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()

	streamer, format, err := mp3.Decode(stream)
	if err != nil {
		_ = stream.Close()
		return errors.Wrap(err, "failed to decode stream")
	}

	if !b.initialized {
		if err := speaker.Init(b.sampleRate, b.sampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			_ = stream.Close()
			return errors.Wrap(err, "failed to init speaker")
		}
		b.initialized = true
	}

	if begin > 0 {
		if err := streamer.Seek(format.SampleRate.N(begin)); err != nil {
			// Non-seekable sources start from the beginning.
			zlog.Warn().Msgf("audio: seek to %v failed: %v", begin, err)
		}
	}

	b.streamer = streamer
	b.source = stream

	resampled := beep.Resample(4, format.SampleRate, b.sampleRate, streamer)
	b.ctrl = &beep.Ctrl{Streamer: resampled}

	// The callback runs under the speaker lock; hand the event off to a
	// fresh goroutine so bus handlers can call back into the speaker.
	speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
		go func() {
			if err := streamer.Err(); err != nil {
				b.bus.Publish(player.Event{Type: player.EventBackendError, Err: err})
				return
			}
			b.bus.Publish(player.Event{Type: player.EventBackendIdle})
		}()
	})))

	return nil
}

// Pause suspends output. Returns false when nothing is playing.
func (b *Backend) Pause() bool { return b.setPaused(true) }

// Resume restarts suspended output. Returns false when nothing is playing.
func (b *Backend) Resume() bool { return b.setPaused(false) }

func (b *Backend) setPaused(paused bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return false
	}
	speaker.Lock()
	b.ctrl.Paused = paused
	speaker.Unlock()
	return true
}

// Stop clears the speaker and releases the current stream. Stopping an idle
// backend succeeds.
func (b *Backend) Stop() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	return true
}

func (b *Backend) stopLocked() {
	if b.ctrl == nil {
		return
	}

	// Cleared streamers never reach their completion callback, so an
	// explicit stop produces no idle event.
	speaker.Clear()

	if b.streamer != nil {
		_ = b.streamer.Close()
	}
	if b.source != nil {
		_ = b.source.Close()
	}
	b.ctrl = nil
	b.streamer = nil
	b.source = nil
}
