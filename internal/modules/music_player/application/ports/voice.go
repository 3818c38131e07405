package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// VoiceConnection joins and leaves guild voice channels.
type VoiceConnection interface {
	// JoinChannel connects the bot to the voice channel, moving it if it is
	// already connected elsewhere in the guild.
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error

	// LeaveChannel tears down the player and disconnects from voice.
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}

// VoiceStateProvider reads cached voice states.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the user's current voice channel, or 0 if
	// the user is not connected.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
