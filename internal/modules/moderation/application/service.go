package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ServiceConfig holds what the bot says to offenders.
type ServiceConfig struct {
	Taunts     []string
	FollowUp   string
	ReplyDelay time.Duration // pause between the taunt and the follow-up
}

// MessageInput is an inbound guild chat message.
type MessageInput struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	AuthorID  snowflake.ID
	Content   string
}

// ModerationService screens chat messages and punishes banned terms.
type ModerationService struct {
	botID     snowflake.ID
	filter    domain.Filter
	engine    *Engine
	messenger Messenger
	clock     clockwork.Clock
	config    ServiceConfig
	pick      func(n int) int
	logger    *zap.Logger
}

// NewModerationService creates a new ModerationService.
func NewModerationService(
	botID snowflake.ID,
	filter domain.Filter,
	engine *Engine,
	messenger Messenger,
	clk clockwork.Clock,
	config ServiceConfig,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		botID:     botID,
		filter:    filter,
		engine:    engine,
		messenger: messenger,
		clock:     clk,
		config:    config,
		pick:      rand.IntN,
		logger:    logger,
	}
}

// HandleMessage checks a message and, if it contains a banned term, taunts
// the author, records a strike and removes the message. It returns the
// sanction applied, or nil if the message was clean.
// Platform failures are logged; none of them undo the strike.
func (s *ModerationService) HandleMessage(ctx context.Context, input MessageInput) *domain.Sanction {
	if input.AuthorID == s.botID || input.GuildID == 0 {
		return nil
	}

	term, ok := s.filter.Match(input.Content)
	if !ok {
		return nil
	}

	logger := s.logger.With(
		zap.Stringer("guild", input.GuildID),
		zap.Stringer("channel", input.ChannelID),
		zap.Stringer("user", input.AuthorID),
	)

	if taunt := s.taunt(input.AuthorID); taunt != "" {
		if err := s.messenger.Send(ctx, input.ChannelID, taunt); err != nil {
			logger.Warn("failed to send taunt", zap.Error(err))
		}
	}

	sanction := s.engine.RecordOffense(ctx, domain.Offense{
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		MessageID: input.MessageID,
		UserID:    input.AuthorID,
		Content:   input.Content,
		Term:      term,
	}, s.clock.Now())

	s.sendFollowUp(ctx, input.ChannelID, logger)

	if err := s.messenger.SendModLog(ctx, sanction); err != nil {
		if errors.Is(err, ErrModLogChannelNotFound) {
			logger.Debug("skipped moderation log", zap.Error(err))
		} else {
			logger.Warn("failed to send moderation log", zap.Error(err))
		}
	}

	if err := s.messenger.Delete(ctx, input.ChannelID, input.MessageID); err != nil {
		logger.Warn("failed to delete offending message", zap.Error(err))
	}

	return &sanction
}

// Strikes returns the user's current standing.
func (s *ModerationService) Strikes(userID snowflake.ID) StrikeStatus {
	return s.engine.Strikes(userID, s.clock.Now())
}

func (s *ModerationService) taunt(userID snowflake.ID) string {
	if len(s.config.Taunts) == 0 {
		return ""
	}
	return fmt.Sprintf("<@%s> %s", userID, s.config.Taunts[s.pick(len(s.config.Taunts))])
}

// sendFollowUp posts the follow-up line after ReplyDelay.
func (s *ModerationService) sendFollowUp(ctx context.Context, channelID snowflake.ID, logger *zap.Logger) {
	if s.config.FollowUp == "" {
		return
	}

	if s.config.ReplyDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.config.ReplyDelay):
		}
	}

	if err := s.messenger.Send(ctx, channelID, s.config.FollowUp); err != nil {
		logger.Warn("failed to send follow-up", zap.Error(err))
	}
}
