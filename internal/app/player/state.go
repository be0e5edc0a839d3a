// Package player provides the playback state machine and the event bus that
// connects it to the audio backend.
package player

// State represents the player state.
type State int

const (
	StateIdle    State = iota // Nothing playing
	StatePlaying              // Backend is emitting audio
	StatePaused               // Backend output suspended
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
