package application

import (
	"context"
	"reflect"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"go.uber.org/zap"
)

// TrackEndHandler consumes end-of-track notifications.
type TrackEndHandler interface {
	HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent)
}

// PlaybackEventHandler feeds audio player notifications back into the scheduler.
type PlaybackEventHandler struct {
	scheduler  TrackEndHandler
	subscriber ports.EventSubscriber
	logger     *zap.Logger
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	scheduler TrackEndHandler,
	subscriber ports.EventSubscriber,
	logger *zap.Logger,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		scheduler:  scheduler,
		subscriber: subscriber,
		logger:     logger,
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() error {
	err := h.subscriber.Subscribe(
		reflect.TypeFor[domain.TrackEndedEvent](),
		func(ctx context.Context, e domain.Event) {
			h.scheduler.HandleTrackEnded(ctx, e.(domain.TrackEndedEvent))
		},
	)
	if err != nil {
		return err
	}

	h.logger.Debug("playback event handlers registered")

	return nil
}

// NotificationEventHandler announces playback changes in the guild's text channel.
type NotificationEventHandler struct {
	subscriber       ports.EventSubscriber
	notifier         ports.NotificationSender
	userInfoProvider ports.UserInfoProvider
	logger           *zap.Logger
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	subscriber ports.EventSubscriber,
	notifier ports.NotificationSender,
	userInfoProvider ports.UserInfoProvider,
	logger *zap.Logger,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		subscriber:       subscriber,
		notifier:         notifier,
		userInfoProvider: userInfoProvider,
		logger:           logger,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() error {
	err := h.subscriber.Subscribe(
		reflect.TypeFor[domain.PlaybackStartedEvent](),
		func(_ context.Context, e domain.Event) {
			h.handlePlaybackStarted(e.(domain.PlaybackStartedEvent))
		},
	)
	if err != nil {
		return err
	}

	err = h.subscriber.Subscribe(
		reflect.TypeFor[domain.QueueDrainedEvent](),
		func(_ context.Context, e domain.Event) {
			h.handleQueueDrained(e.(domain.QueueDrainedEvent))
		},
	)
	if err != nil {
		return err
	}

	h.logger.Debug("notification event handlers registered")

	return nil
}

func (h *NotificationEventHandler) handlePlaybackStarted(event domain.PlaybackStartedEvent) {
	if event.NotificationChannelID == 0 || event.Track == nil {
		return
	}

	track := event.Track
	info := &ports.NowPlayingInfo{
		Title:       track.Title,
		Artist:      track.Artist,
		Duration:    track.FormattedDuration(),
		URI:         track.SourceURI,
		SourceName:  track.SourceName,
		IsStream:    track.IsStream,
		RequesterID: track.RequesterID,
		EnqueuedAt:  track.EnqueuedAt,
	}

	if h.userInfoProvider != nil && track.RequesterID != 0 {
		user, err := h.userInfoProvider.GetUserInfo(event.GuildID, track.RequesterID)
		if err != nil {
			h.logger.Debug("failed to look up requester",
				zap.Stringer("guild", event.GuildID),
				zap.Stringer("user", track.RequesterID),
				zap.Error(err),
			)
		} else {
			info.RequesterName = user.DisplayName
			info.RequesterAvatarURL = user.AvatarURL
		}
	}

	if err := h.notifier.SendNowPlaying(event.NotificationChannelID, info); err != nil {
		h.logger.Warn("failed to send now playing notification",
			zap.Stringer("guild", event.GuildID),
			zap.Error(err),
		)
	}
}

func (h *NotificationEventHandler) handleQueueDrained(event domain.QueueDrainedEvent) {
	if event.NotificationChannelID == 0 {
		return
	}

	if err := h.notifier.SendQueueDrained(event.NotificationChannelID); err != nil {
		h.logger.Warn("failed to send queue drained notification",
			zap.Stringer("guild", event.GuildID),
			zap.Error(err),
		)
	}
}
