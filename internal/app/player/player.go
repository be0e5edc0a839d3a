package player

import (
	"context"
	"fmt"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/app/notify"
)

// Player is the playback controller. Each public operation is dispatched to
// the handler for the current state; the target state is committed only when
// the handler call returns without error, so a failing operation never
// changes state. One mutex serializes all operations and bus reactions for
// the instance.
type Player struct {
	mu       sync.Mutex
	state    State
	handlers map[State]Handler
	queue    QueueSource
	notifier notify.Sink
}

// New creates a player in the Idle state and subscribes it to the bus.
func New(queue QueueSource, resolver StreamResolver, backend Backend, bus *Bus, notifier notify.Sink, status notify.Status) *Player {
	deps := &handlerDeps{
		queue:    queue,
		resolver: resolver,
		backend:  backend,
		notifier: notifier,
		status:   status,
	}

	p := &Player{
		state: StateIdle,
		handlers: map[State]Handler{
			StateIdle:    idleHandler{deps: deps},
			StatePlaying: playingHandler{deps: deps},
			StatePaused:  pausedHandler{deps: deps},
		},
		queue:    queue,
		notifier: notifier,
	}

	bus.Subscribe(EventBackendIdle, p.onBackendIdle)
	bus.Subscribe(EventBackendError, p.onBackendError)
	return p
}

// State returns the committed player state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play starts or resumes playback.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playLocked(ctx)
}

// Stop stops playback and returns the player to Idle.
func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked(ctx, false)
}

// Pause suspends playback.
func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.handlerFor(p.state).Pause(ctx); err != nil {
		p.reportLocked("pause", err, "Failed to pause playback")
		return err
	}
	p.state = StatePaused
	return nil
}

// Skip stops the current item silently, announces the skip, and starts the
// next one. The queue has already advanced when the now-playing notification
// for the follow-up item goes out.
func (p *Player) Skip(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipLocked(ctx)
}

func (p *Player) playLocked(ctx context.Context) error {
	if err := p.handlerFor(p.state).Play(ctx); err != nil {
		p.reportLocked("play", err, "Error Playing Song")
		return err
	}
	p.state = StatePlaying
	return nil
}

func (p *Player) stopLocked(ctx context.Context, silent bool) error {
	if err := p.handlerFor(p.state).Stop(ctx, silent); err != nil {
		p.reportLocked("stop", err, "Failed to stop playback")
		return err
	}
	p.state = StateIdle
	return nil
}

func (p *Player) skipLocked(ctx context.Context) error {
	if err := p.stopLocked(ctx, true); err != nil {
		return err
	}

	if last, ok := p.queue.LastPlayed(); ok {
		p.notifier.InfoTitle("Skipped", last.DisplayName())
	} else {
		p.notifier.Info("Skipped")
	}

	return p.playLocked(ctx)
}

// onBackendIdle advances playback when the current item finishes. Idle
// events arriving while not Playing are late or spurious and are dropped.
func (p *Player) onBackendIdle(Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying {
		zlog.Debug().Msgf("player: dropping idle event in state %s", p.state)
		return
	}

	// The current item just finished, so the committed state is Idle before
	// the advance is attempted.
	p.state = StateIdle
	_ = p.playLocked(context.Background())
}

// onBackendError treats a failed stream as "move on": report, then skip.
func (p *Player) onBackendError(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	zlog.Error().Msgf("player: backend error: %v", e.Err)
	p.notifier.Error("Error Playing Song")
	_ = p.skipLocked(context.Background())
}

// handlerFor returns the handler for a state. Every enumerated state is
// registered at construction, so a miss is an invariant violation.
func (p *Player) handlerFor(s State) Handler {
	h, ok := p.handlers[s]
	if !ok {
		panic(fmt.Sprintf("player: no handler for state %s", s))
	}
	return h
}

// reportLocked logs the full error and emits a short user-facing message.
func (p *Player) reportLocked(op string, err error, message string) {
	zlog.Error().Msgf("player: %s failed: %v", op, err)
	p.notifier.Error(message)
}
