package notify

import (
	zlog "github.com/rs/zerolog/log"
)

// ConsoleStream writes notifications to the log. It is the delivery surface
// used by the interactive CLI.
type ConsoleStream struct{}

// Send implements Stream.
func (ConsoleStream) Send(n *Notification) error {
	switch n.Kind {
	case KindError:
		zlog.Error().Msgf("[%d] %s", n.Seq, n.Text)
	default:
		if n.Title != "" {
			zlog.Info().Msgf("[%d] %s: %s", n.Seq, n.Title, n.Text)
		} else {
			zlog.Info().Msgf("[%d] %s", n.Seq, n.Text)
		}
	}
	return nil
}

// LogStatus reports banner updates through the log. A chat gateway would
// replace this with a presence/topic update.
type LogStatus struct{}

// SetBanner implements Status.
func (LogStatus) SetBanner(text string) {
	zlog.Info().Msgf("status: %s", text)
}

// ClearBanner implements Status.
func (LogStatus) ClearBanner() {
	zlog.Debug().Msg("status: cleared")
}
