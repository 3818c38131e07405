package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// ErrNoLavalinkNode is returned when no Lavalink node is reachable.
var ErrNoLavalinkNode = errors.New("no available Lavalink node")

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// activePlayback is the attempt Lavalink is currently playing for a guild.
type activePlayback struct {
	id  domain.PlaybackID
	err error // exception reported before the end event
}

// voiceGateway sends voice state updates over the Discord gateway.
type voiceGateway interface {
	ChannelVoiceJoinManual(guildID, channelID string, mute, deaf bool) error
}

// LavalinkAdapter wraps DisGoLink to drive playback and voice connections.
type LavalinkAdapter struct {
	link   disgolink.Client
	voice  voiceGateway
	botID  snowflake.ID
	logger *zap.Logger

	handshakeMu sync.Mutex
	handshakes  map[snowflake.ID]*voiceHandshake

	playbackMu sync.Mutex
	playbacks  map[snowflake.ID]*activePlayback

	publisher ports.EventPublisher
}

// NewLavalinkAdapter creates a new LavalinkAdapter and connects to the node.
func NewLavalinkAdapter(
	ctx context.Context,
	session *discordgo.Session,
	config LavalinkConfig,
	logger *zap.Logger,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		voice:      session,
		botID:      botID,
		logger:     logger,
		handshakes: make(map[snowflake.ID]*voiceHandshake),
		playbacks:  make(map[snowflake.ID]*activePlayback),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	logger.Info("connected to Lavalink",
		zap.String("node", node.Config().Name),
		zap.String("address", config.Address),
	)

	return adapter, nil
}

// SetEventPublisher sets where track end notifications are published.
func (c *LavalinkAdapter) SetEventPublisher(publisher ports.EventPublisher) {
	c.publisher = publisher
}

// BotID returns the bot's user ID.
func (c *LavalinkAdapter) BotID() snowflake.ID {
	return c.botID
}

// Close disconnects from every node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// JoinChannel connects to a voice channel, or moves there if already connected.
// It returns once Lavalink has both halves of the voice handshake.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	handshake := newVoiceHandshake()

	c.handshakeMu.Lock()
	c.handshakes[guildID] = handshake
	c.handshakeMu.Unlock()

	err := c.voice.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	timer := time.NewTimer(voiceConnectionTimeout)
	defer timer.Stop()

	select {
	case <-handshake.done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("timeout waiting for voice connection")
	}
}

// LeaveChannel destroys the guild's player and disconnects from voice.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	c.playbackMu.Lock()
	delete(c.playbacks, guildID)
	c.playbackMu.Unlock()

	if player := c.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			c.logger.Warn("failed to destroy player",
				zap.Stringer("guild", guildID),
				zap.Error(err),
			)
		}
	}

	if err := c.voice.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts the track as attempt playbackID.
// Tracks resolved outside Lavalink are loaded from their source URI first.
func (c *LavalinkAdapter) Play(
	ctx context.Context,
	guildID snowflake.ID,
	playbackID domain.PlaybackID,
	track *domain.Track,
) error {
	encoded := track.Encoded
	if encoded == "" {
		loaded, err := c.loadSingle(ctx, track.SourceURI)
		if err != nil {
			return err
		}
		encoded = loaded.Encoded
	}

	c.playbackMu.Lock()
	c.playbacks[guildID] = &activePlayback{id: playbackID}
	c.playbackMu.Unlock()

	// Use WithEncodedTrack to avoid userData:null issue
	err := c.link.Player(guildID).Update(ctx,
		lavalink.WithEncodedTrack(encoded),
		lavalink.WithPaused(false),
	)
	if err != nil {
		c.playbackMu.Lock()
		if current := c.playbacks[guildID]; current != nil && current.id == playbackID {
			delete(c.playbacks, guildID)
		}
		c.playbackMu.Unlock()
		return fmt.Errorf("failed to play track: %w", err)
	}

	return nil
}

// Stop stops the current playback.
func (c *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Pause pauses the current playback.
func (c *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}

// Resume resumes the current playback.
func (c *LavalinkAdapter) Resume(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	return nil
}

// loadTracks runs a Lavalink load on the best node.
func (c *LavalinkAdapter) loadTracks(ctx context.Context, identifier string) (*lavalink.LoadResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, ErrNoLavalinkNode
	}

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return result, nil
}

// loadSingle loads identifier and returns the track it designates.
func (c *LavalinkAdapter) loadSingle(ctx context.Context, identifier string) (*lavalink.Track, error) {
	result, err := c.loadTracks(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return firstTrack(result)
}

// firstTrack picks the track a load result designates: the track itself,
// the selected (or first) playlist entry, or the best search hit.
func firstTrack(result *lavalink.LoadResult) (*lavalink.Track, error) {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &data, nil

	case lavalink.Playlist:
		if len(data.Tracks) == 0 {
			return nil, ports.ErrTrackNotFound
		}
		selected := data.Info.SelectedTrack
		if selected < 0 || selected >= len(data.Tracks) {
			selected = 0
		}
		return &data.Tracks[selected], nil

	case lavalink.Search:
		if len(data) == 0 {
			return nil, ports.ErrTrackNotFound
		}
		return &data[0], nil

	case lavalink.Exception:
		return nil, fmt.Errorf("lavalink load failed (%s): %s", data.Severity, data.Message)

	default:
		return nil, ports.ErrTrackNotFound
	}
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		c.logger.Error("failed to parse guild ID in voice server update", zap.Error(err))
		return
	}

	if creds, ok := c.handshake(guildID).setServer(event.Token, event.Endpoint); ok {
		c.forwardVoiceCredentials(guildID, creds)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates for the bot itself.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		c.logger.Error("failed to parse guild ID in voice state update", zap.Error(err))
		return
	}

	// A disconnect needs no server half.
	if event.ChannelID == "" {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.handshakeMu.Lock()
		delete(c.handshakes, guildID)
		c.handshakeMu.Unlock()
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		c.logger.Error("failed to parse channel ID in voice state update", zap.Error(err))
		return
	}

	if creds, ok := c.handshake(guildID).setState(&channelID, event.SessionID); ok {
		c.forwardVoiceCredentials(guildID, creds)
	}
}

// handshake returns the guild's pending handshake, creating one if needed.
func (c *LavalinkAdapter) handshake(guildID snowflake.ID) *voiceHandshake {
	c.handshakeMu.Lock()
	defer c.handshakeMu.Unlock()

	h, ok := c.handshakes[guildID]
	if !ok {
		h = newVoiceHandshake()
		c.handshakes[guildID] = h
	}
	return h
}

// forwardVoiceCredentials hands a complete handshake to Lavalink, state first.
func (c *LavalinkAdapter) forwardVoiceCredentials(guildID snowflake.ID, creds voiceCredentials) {
	c.logger.Debug("forwarding voice handshake to Lavalink",
		zap.Stringer("guild", guildID),
		zap.Bool("has_session", creds.sessionID != ""),
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, creds.channelID, creds.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, creds.token, creds.endpoint)
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	c.logger.Debug("track started",
		zap.Stringer("guild", player.GuildID()),
		zap.String("track", event.Track.Info.Title),
	)
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	guildID := player.GuildID()
	c.logger.Debug("track ended",
		zap.Stringer("guild", guildID),
		zap.String("reason", string(event.Reason)),
	)

	// The replacing attempt owns the slot now.
	if event.Reason == lavalink.TrackEndReasonReplaced {
		return
	}

	c.playbackMu.Lock()
	active := c.playbacks[guildID]
	delete(c.playbacks, guildID)
	c.playbackMu.Unlock()

	if active == nil || c.publisher == nil {
		return
	}

	if err := c.publisher.Publish(domain.TrackEndedEvent{
		GuildID:    guildID,
		PlaybackID: active.id,
		Reason:     convertEndReason(event.Reason),
		Err:        active.err,
	}); err != nil {
		c.logger.Error("failed to publish track end",
			zap.Stringer("guild", guildID),
			zap.Error(err),
		)
	}
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	guildID := player.GuildID()
	c.logger.Warn("track exception",
		zap.Stringer("guild", guildID),
		zap.String("error", event.Exception.Message),
	)

	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	if active := c.playbacks[guildID]; active != nil {
		active.err = errors.New(event.Exception.Message)
	}
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	c.logger.Warn("track stuck",
		zap.Stringer("guild", player.GuildID()),
		zap.Any("threshold", event.Threshold),
	)
}

func convertEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonStopped:
		return domain.TrackEndStopped
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
)
