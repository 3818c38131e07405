package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track is a resolved, playable item. It is not modified once queued.
type Track struct {
	Title       string
	Artist      string
	SourceURI   string // identifier the audio player loads (page URL or stream URL)
	Encoded     string // pre-loaded Lavalink track data, empty when resolved elsewhere
	Duration    time.Duration
	SourceName  string // e.g., "youtube", "soundcloud"
	IsStream    bool
	RequesterID snowflake.ID
	EnqueuedAt  time.Time
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// WithRequester returns a copy of the track attributed to requesterID at enqueuedAt.
func (t Track) WithRequester(requesterID snowflake.ID, enqueuedAt time.Time) *Track {
	t.RequesterID = requesterID
	t.EnqueuedAt = enqueuedAt.UTC()
	return &t
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.SourceURI != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
