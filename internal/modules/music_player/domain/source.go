package domain

import (
	"net/url"
	"strings"
)

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceBandcamp   TrackSource = "bandcamp"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource converts a source name string to a TrackSource.
func ParseTrackSource(name string) TrackSource {
	switch strings.ToLower(name) {
	case "youtube", "youtube:tab", "youtube:search":
		return TrackSourceYouTube
	case "soundcloud":
		return TrackSourceSoundCloud
	case "twitch", "twitch:stream":
		return TrackSourceTwitch
	case "bandcamp":
		return TrackSourceBandcamp
	default:
		return TrackSourceOther
	}
}

// SourceFromURL guesses the platform from a page URL.
func SourceFromURL(raw string) TrackSource {
	u, err := url.Parse(raw)
	if err != nil {
		return TrackSourceOther
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be", strings.HasSuffix(host, "youtube.com"):
		return TrackSourceYouTube
	case strings.HasSuffix(host, "soundcloud.com"):
		return TrackSourceSoundCloud
	case strings.HasSuffix(host, "twitch.tv"):
		return TrackSourceTwitch
	case strings.HasSuffix(host, "bandcamp.com"):
		return TrackSourceBandcamp
	default:
		return TrackSourceOther
	}
}

// Color returns the embed accent color associated with the source.
func (s TrackSource) Color() int {
	switch s {
	case TrackSourceYouTube:
		return 0xFF0000
	case TrackSourceSoundCloud:
		return 0xFF5500
	case TrackSourceTwitch:
		return 0x9146FF
	case TrackSourceBandcamp:
		return 0x629AA9
	default:
		return 0x08C404
	}
}
