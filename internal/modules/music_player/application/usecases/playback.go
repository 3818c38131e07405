package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	Query                 string
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	Track      *domain.Track
	NowPlaying bool // true if the track started immediately
	Position   int  // 1-indexed position among pending tracks; 0 when NowPlaying
}

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *domain.Track
	NextTrack    *domain.Track // nil if queue is empty
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID snowflake.ID
}

// StopOutput contains the result of the Stop use case.
type StopOutput struct {
	ClearedTracks int
}

// PlaybackService schedules playback for every guild.
// All mutations of a guild's state happen while holding that guild's lock.
// Track resolution happens before the lock is taken so one guild's slow
// lookup never delays another guild, or the same guild's other commands.
type PlaybackService struct {
	repo        domain.PlayerStateRepository
	locks       *keylock.Locker[snowflake.ID]
	audioPlayer ports.AudioPlayer
	voiceConn   ports.VoiceConnection
	voiceState  ports.VoiceStateProvider
	resolver    ports.TrackResolver
	publisher   ports.EventPublisher
	clock       clockwork.Clock
	logger      *zap.Logger
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.PlayerStateRepository,
	locks *keylock.Locker[snowflake.ID],
	audioPlayer ports.AudioPlayer,
	voiceConn ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	resolver ports.TrackResolver,
	publisher ports.EventPublisher,
	clk clockwork.Clock,
	logger *zap.Logger,
) *PlaybackService {
	return &PlaybackService{
		repo:        repo,
		locks:       locks,
		audioPlayer: audioPlayer,
		voiceConn:   voiceConn,
		voiceState:  voiceState,
		resolver:    resolver,
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
	}
}

// Enqueue resolves the query and either starts it (idle guild) or appends it to the queue.
// A play request whose lookup started before the guild was stopped is discarded.
func (p *PlaybackService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrEmptyQuery
	}

	voiceChannelID, err := p.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up voice state: %w", err)
	}
	if voiceChannelID == 0 {
		return nil, ErrUserNotInVoice
	}

	generation := p.repo.Generation(input.GuildID)

	resolved, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		if errors.Is(err, ports.ErrTrackNotFound) {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}
	track := resolved.WithRequester(input.UserID, p.clock.Now())

	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	if p.repo.Generation(input.GuildID) != generation {
		p.logger.Debug("discarded track resolved before stop",
			zap.Stringer("guild", input.GuildID),
			zap.String("title", track.Title),
		)
		return nil, ErrPlayCancelled
	}

	state, err := p.connect(ctx, input.GuildID, voiceChannelID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}

	if !state.IsIdle() {
		position := state.Queue.Push(track)
		p.logger.Debug("queued track",
			zap.Stringer("guild", input.GuildID),
			zap.String("title", track.Title),
			zap.Int("position", position),
		)
		return &EnqueueOutput{Track: track, Position: position}, nil
	}

	if err := p.startTrack(ctx, state, track); err != nil {
		// Nothing else is queued on an idle guild; do not linger in voice.
		p.disconnect(ctx, state)
		return nil, fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}

	return &EnqueueOutput{Track: track, NowPlaying: true}, nil
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input PauseInput) error {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil || state.Phase() != domain.PhasePlaying {
		return ErrNothingPlaying
	}
	updateNotificationChannel(state, input.NotificationChannelID)

	if err := p.audioPlayer.Pause(ctx, input.GuildID); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	state.Pause()

	return nil
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, input ResumeInput) error {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil || state.Phase() != domain.PhasePaused {
		return ErrNothingPaused
	}
	updateNotificationChannel(state, input.NotificationChannelID)

	if err := p.audioPlayer.Resume(ctx, input.GuildID); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	state.Resume()

	return nil
}

// Skip stops the current track. The queue advances when the player reports
// the end of the track, exactly as for a natural end.
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil || !state.Phase().HasActivePlayback() {
		return nil, ErrNothingToSkip
	}
	updateNotificationChannel(state, input.NotificationChannelID)

	skipped := state.CurrentTrack()
	next := state.Queue.Peek()

	if err := p.audioPlayer.Stop(ctx, input.GuildID); err != nil {
		return nil, fmt.Errorf("failed to stop current track: %w", err)
	}

	return &SkipOutput{
		SkippedTrack: skipped,
		NextTrack:    next,
	}, nil
}

// Stop clears the queue, leaves voice and forgets the guild.
// Lookups still in flight for this guild are discarded when they complete.
func (p *PlaybackService) Stop(ctx context.Context, input StopInput) (*StopOutput, error) {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	cleared := state.Stop()
	p.repo.Reset(input.GuildID)

	if err := p.voiceConn.LeaveChannel(ctx, input.GuildID); err != nil {
		p.logger.Warn("failed to leave voice channel on stop",
			zap.Stringer("guild", input.GuildID),
			zap.Error(err),
		)
	}

	p.logger.Info("stopped playback",
		zap.Stringer("guild", input.GuildID),
		zap.Int("cleared_tracks", cleared),
	)

	return &StopOutput{ClearedTracks: cleared}, nil
}

// HandleTrackEnded consumes the audio player's end-of-track notification.
// Notifications for a playback attempt other than the active one are ignored.
func (p *PlaybackService) HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	unlock := p.locks.Lock(event.GuildID)
	defer unlock()

	state := p.repo.Get(event.GuildID)
	if state == nil || !state.IsCurrentPlayback(event.PlaybackID) {
		p.logger.Debug("ignored stale track end",
			zap.Stringer("guild", event.GuildID),
			zap.String("playback_id", string(event.PlaybackID)),
			zap.String("reason", string(event.Reason)),
		)
		return
	}

	if !event.Reason.ShouldAdvanceQueue() {
		return
	}

	if event.Err != nil {
		p.logger.Warn("track ended with error",
			zap.Stringer("guild", event.GuildID),
			zap.String("title", state.CurrentTrack().Title),
			zap.Error(event.Err),
		)
	}

	state.FinishPlayback()
	p.advance(ctx, state)
}

// advance plays the next queued track, skipping tracks the player refuses.
// With nothing left it drains the guild.
func (p *PlaybackService) advance(ctx context.Context, state *domain.PlayerState) {
	for {
		next := state.Queue.Pop()
		if next == nil {
			p.drain(ctx, state)
			return
		}

		err := p.startTrack(ctx, state, next)
		if err == nil {
			return
		}
		p.logger.Warn("failed to start queued track, skipping",
			zap.Stringer("guild", state.GetGuildID()),
			zap.String("title", next.Title),
			zap.Error(err),
		)
	}
}

// startTrack hands the track to the audio player under a fresh playback ID.
func (p *PlaybackService) startTrack(
	ctx context.Context,
	state *domain.PlayerState,
	track *domain.Track,
) error {
	playbackID := domain.NewPlaybackID()

	if err := p.audioPlayer.Play(ctx, state.GetGuildID(), playbackID, track); err != nil {
		return err
	}
	state.StartPlayback(track, playbackID)

	p.publish(domain.PlaybackStartedEvent{
		GuildID:               state.GetGuildID(),
		Track:                 track,
		NotificationChannelID: state.GetNotificationChannelID(),
	})

	return nil
}

// drain is the end of a session: the queue ran dry.
func (p *PlaybackService) drain(ctx context.Context, state *domain.PlayerState) {
	p.disconnect(ctx, state)

	p.publish(domain.QueueDrainedEvent{
		GuildID:               state.GetGuildID(),
		NotificationChannelID: state.GetNotificationChannelID(),
	})
}

// disconnect leaves voice and discards the state so the next play starts fresh.
func (p *PlaybackService) disconnect(ctx context.Context, state *domain.PlayerState) {
	guildID := state.GetGuildID()

	if err := p.voiceConn.LeaveChannel(ctx, guildID); err != nil {
		p.logger.Warn("failed to leave voice channel",
			zap.Stringer("guild", guildID),
			zap.Error(err),
		)
	}
	p.repo.Delete(guildID)
}

// connect returns the guild's state, joining or moving to voiceChannelID as needed.
func (p *PlaybackService) connect(
	ctx context.Context,
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
) (*domain.PlayerState, error) {
	state := p.repo.Get(guildID)
	if state != nil && state.GetVoiceChannelID() == voiceChannelID {
		updateNotificationChannel(state, notificationChannelID)
		return state, nil
	}

	if err := p.voiceConn.JoinChannel(ctx, guildID, voiceChannelID); err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	if state != nil {
		// Moving channels keeps the queue.
		state.SetVoiceChannelID(voiceChannelID)
		updateNotificationChannel(state, notificationChannelID)
		return state, nil
	}

	state = domain.NewPlayerState(guildID, voiceChannelID, notificationChannelID)
	p.repo.Save(state)
	return state, nil
}

func (p *PlaybackService) publish(event domain.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(event); err != nil {
		p.logger.Warn("failed to publish event",
			zap.Stringer("guild", event.EventGuildID()),
			zap.Error(err),
		)
	}
}

func updateNotificationChannel(state *domain.PlayerState, channelID snowflake.ID) {
	if channelID != 0 {
		state.SetNotificationChannelID(channelID)
	}
}
