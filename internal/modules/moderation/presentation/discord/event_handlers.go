package discord

import (
	"context"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// MessageScreener checks chat messages for banned terms.
type MessageScreener interface {
	HandleMessage(ctx context.Context, input application.MessageInput) *domain.Sanction
}

// EventHandlers handles Discord gateway events for moderation.
type EventHandlers struct {
	ctx      context.Context
	screener MessageScreener
	logger   *zap.Logger
}

// NewEventHandlers creates a new EventHandlers. Handling stops waiting on
// Discord once ctx is cancelled.
func NewEventHandlers(
	ctx context.Context,
	screener MessageScreener,
	logger *zap.Logger,
) *EventHandlers {
	return &EventHandlers{
		ctx:      ctx,
		screener: screener,
		logger:   logger,
	}
}

// HandleMessageCreate screens guild messages.
func (h *EventHandlers) HandleMessageCreate(_ *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Message == nil || event.Author == nil || event.GuildID == "" {
		return
	}

	input, err := parseMessage(event.Message)
	if err != nil {
		h.logger.Error("failed to parse message IDs",
			zap.String("message", event.ID),
			zap.Error(err),
		)
		return
	}

	h.screener.HandleMessage(h.ctx, input)
}

func parseMessage(m *discordgo.Message) (application.MessageInput, error) {
	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return application.MessageInput{}, err
	}
	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return application.MessageInput{}, err
	}
	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return application.MessageInput{}, err
	}
	authorID, err := snowflake.Parse(m.Author.ID)
	if err != nil {
		return application.MessageInput{}, err
	}

	return application.MessageInput{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		AuthorID:  authorID,
		Content:   m.Content,
	}, nil
}
