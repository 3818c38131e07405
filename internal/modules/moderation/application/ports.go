package application

import (
	"context"
	"errors"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/disgoorg/snowflake/v2"
)

// ErrModLogChannelNotFound is returned when a guild has no moderation log channel.
var ErrModLogChannelNotFound = errors.New("moderation log channel not found")

// Enforcer applies sanctions on the platform.
type Enforcer interface {
	// Timeout prevents the user from talking until the given time.
	Timeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time, reason string) error
}

// Messenger posts and removes messages.
type Messenger interface {
	// Send posts content to a channel.
	Send(ctx context.Context, channelID snowflake.ID, content string) error

	// Delete removes a message.
	Delete(ctx context.Context, channelID, messageID snowflake.ID) error

	// SendModLog posts a sanction summary to the guild's moderation log channel.
	// Returns ErrModLogChannelNotFound if the guild has none.
	SendModLog(ctx context.Context, sanction domain.Sanction) error
}
