// Package media provides the playable media item entity.
package media

import (
	"fmt"
	"time"
)

// Kind selects the resolver strategy used to fetch metadata and audio
// for an item.
type Kind string

const (
	KindFile    Kind = "file"
	KindSpotify Kind = "spotify"
)

// Item represents one playable unit. Name and Duration may be empty until
// details are resolved on the first playback attempt; all other fields are
// set by the caller that creates the item. Items have no identity beyond
// pointer equality within a single queue.
type Item struct {
	Kind      Kind          // Resolver strategy tag
	URL       string        // Locator (file path, Spotify URL/URI, ...)
	Name      string        // Display name
	Artist    string        // Primary artist, when known
	Duration  time.Duration // Track duration
	Requester string        // Who asked for this item
	ImageURL  string        // Artwork URL
	Begin     time.Duration // Seek offset applied when playback starts
}

// HasDetails reports whether display metadata has been populated.
func (i *Item) HasDetails() bool {
	return i.Name != "" && i.Duration > 0
}

// DisplayName returns the item name, falling back to the locator for items
// whose details have not been resolved yet.
func (i *Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.URL
}

// DisplayDuration formats the duration as m:ss, or h:mm:ss for long items.
func (i *Item) DisplayDuration() string {
	d := i.Duration.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
