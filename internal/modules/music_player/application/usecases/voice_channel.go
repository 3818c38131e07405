package usecases

import (
	"context"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// VoiceChannelService reacts to voice changes the bot did not initiate.
type VoiceChannelService struct {
	botID           snowflake.ID
	repo            domain.PlayerStateRepository
	locks           *keylock.Locker[snowflake.ID]
	voiceConnection ports.VoiceConnection
	voiceState      ports.VoiceStateProvider
	logger          *zap.Logger
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	botID snowflake.ID,
	repo domain.PlayerStateRepository,
	locks *keylock.Locker[snowflake.ID],
	voiceConnection ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	logger *zap.Logger,
) *VoiceChannelService {
	return &VoiceChannelService{
		botID:           botID,
		repo:            repo,
		locks:           locks,
		voiceConnection: voiceConnection,
		voiceState:      voiceState,
		logger:          logger,
	}
}

// HandleBotVoiceStateChange handles the bot being moved or disconnected by someone else.
// A disconnect is treated like stop; a move keeps playing in the new channel.
func (v *VoiceChannelService) HandleBotVoiceStateChange(
	ctx context.Context,
	input BotVoiceStateChangeInput,
) {
	unlock := v.locks.Lock(input.GuildID)
	defer unlock()

	state := v.repo.Get(input.GuildID)
	if state == nil {
		return
	}

	if input.NewChannelID != nil {
		if *input.NewChannelID != state.GetVoiceChannelID() {
			state.SetVoiceChannelID(*input.NewChannelID)
		}
		return
	}

	// The disconnect may predate a rejoin that happened while we waited for
	// the lock; trust the live voice state over the event.
	current, err := v.voiceState.GetUserVoiceChannel(input.GuildID, v.botID)
	if err == nil && current != 0 {
		return
	}

	state.Stop()
	v.repo.Reset(input.GuildID)

	if err := v.voiceConnection.LeaveChannel(ctx, input.GuildID); err != nil {
		v.logger.Debug("failed to tear down player after external disconnect",
			zap.Stringer("guild", input.GuildID),
			zap.Error(err),
		)
	}

	v.logger.Info("reset player after external voice disconnect",
		zap.Stringer("guild", input.GuildID),
	)
}
