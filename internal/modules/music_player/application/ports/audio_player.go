package ports

import (
	"context"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
)

// AudioPlayer drives the external audio pipeline.
// Every successful Play must eventually be followed by exactly one
// domain.TrackEndedEvent carrying the same playbackID, whether the track
// finishes, fails or is stopped.
type AudioPlayer interface {
	// Play starts playback of the given track as attempt playbackID.
	Play(ctx context.Context, guildID snowflake.ID, playbackID domain.PlaybackID, track *domain.Track) error

	// Stop stops the current playback, which ends the attempt.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error
}
