// Package notify provides playback notification contracts and fan-out to
// subscribed delivery surfaces.
package notify

import "github.com/kinokawa/discbox/internal/domain/media"

// Sink receives user-facing playback notifications. The player core calls
// these; delivery (chat message, console, ...) is up to the implementation.
type Sink interface {
	Info(text string)
	InfoTitle(title, text string)
	Error(text string)
	TrackAdded(it *media.Item, position int)
	TrackPlaying(it *media.Item)
}

// Status is an ambient now-playing indicator. Calls are fire-and-forget.
type Status interface {
	SetBanner(text string)
	ClearBanner()
}

// Kind represents a notification kind.
type Kind int

const (
	KindInfo Kind = iota
	KindError
	KindTrackAdded
	KindTrackPlaying
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	case KindTrackAdded:
		return "track_added"
	case KindTrackPlaying:
		return "track_playing"
	default:
		return "unknown"
	}
}

// Notification is one delivered notification.
type Notification struct {
	Seq      uint64      // Monotonic sequence number, assigned on broadcast
	Kind     Kind        // Notification kind
	Title    string      // Optional title
	Text     string      // Message body
	Item     *media.Item // Set for track notifications
	Position int         // 1-based queue position, set for KindTrackAdded
}
