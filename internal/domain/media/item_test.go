package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItem_HasDetails(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected bool
	}{
		{
			name:     "no details",
			item:     Item{Kind: KindFile, URL: "/music/a.mp3"},
			expected: false,
		},
		{
			name:     "name only",
			item:     Item{Name: "Song A"},
			expected: false,
		},
		{
			name:     "duration only",
			item:     Item{Duration: time.Minute},
			expected: false,
		},
		{
			name:     "name and duration",
			item:     Item{Name: "Song A", Duration: time.Minute},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.HasDetails())
		})
	}
}

func TestItem_DisplayName(t *testing.T) {
	named := Item{URL: "/music/a.mp3", Name: "Song A"}
	assert.Equal(t, "Song A", named.DisplayName())

	unnamed := Item{URL: "/music/a.mp3"}
	assert.Equal(t, "/music/a.mp3", unnamed.DisplayName())
}

func TestItem_DisplayDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "zero",
			duration: 0,
			expected: "0:00",
		},
		{
			name:     "one minute",
			duration: time.Minute,
			expected: "1:00",
		},
		{
			name:     "rounds sub-second noise",
			duration: 3*time.Minute + 29*time.Second + 700*time.Millisecond,
			expected: "3:30",
		},
		{
			name:     "over an hour",
			duration: time.Hour + 5*time.Minute + 9*time.Second,
			expected: "1:05:09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Duration: tt.duration}
			assert.Equal(t, tt.expected, it.DisplayDuration())
		})
	}
}
