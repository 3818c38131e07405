package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// TimeoutSetter is the part of a Discord session the Enforcer uses.
type TimeoutSetter interface {
	GuildMemberTimeout(
		guildID, userID string,
		until *time.Time,
		options ...discordgo.RequestOption,
	) error
}

// Enforcer applies timeouts through the Discord API.
type Enforcer struct {
	session TimeoutSetter
}

// NewEnforcer creates a new Enforcer.
func NewEnforcer(session TimeoutSetter) *Enforcer {
	return &Enforcer{session: session}
}

// Timeout communication-disables the member until the given time.
// The reason is recorded in the guild's audit log.
func (e *Enforcer) Timeout(
	ctx context.Context,
	guildID, userID snowflake.ID,
	until time.Time,
	reason string,
) error {
	until = until.UTC()
	err := e.session.GuildMemberTimeout(
		guildID.String(),
		userID.String(),
		&until,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
	if err != nil {
		return fmt.Errorf("failed to time out member: %w", err)
	}
	return nil
}

var _ application.Enforcer = (*Enforcer)(nil)
