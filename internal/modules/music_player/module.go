package music_player

import (
	"context"
	"fmt"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	"github.com/Tyr597972/DiscordBot/internal/keylock"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/usecases"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/infrastructure"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/presentation/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	logger          *zap.Logger
	commandHandlers *discord.CommandHandlers
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	// Event-driven components
	eventBus            *infrastructure.ChannelEventBus
	playbackHandler     *application.PlaybackEventHandler
	notificationHandler *application.NotificationEventHandler
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":   m.commandHandlers.HandlePlay,
		"pause":  m.commandHandlers.HandlePause,
		"resume": m.commandHandlers.HandleResume,
		"skip":   m.commandHandlers.HandleSkip,
		"stop":   m.commandHandlers.HandleStop,
		"list":   m.commandHandlers.HandleList,
	}
}

// EventHandlers returns the event handlers for this module.
// discordgo runs every handler in its own goroutine, so the Lavalink voice
// forwarding must stay a separate handler: JoinChannel blocks under the
// guild lock until it has been fed, while the voice state handler below
// takes that same lock.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.lavalinkAdapter.OnVoiceServerUpdate(event)
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.lavalinkAdapter.OnVoiceStateUpdate(event)
		},
		m.eventHandlers.HandleVoiceStateUpdate,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return fmt.Errorf("music_player requires a Discord session")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	m.logger = deps.Logger.Named(m.Name())

	m.eventBus = infrastructure.NewChannelEventBus(
		infrastructure.DefaultEventBufferSize,
		m.logger.Named("events"),
	)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		context.Background(),
		deps.Session,
		m.config.lavalink(),
		m.logger.Named("lavalink"),
	)
	if err != nil {
		m.eventBus.Close()
		return err
	}
	lavalinkAdapter.SetEventPublisher(m.eventBus)
	m.lavalinkAdapter = lavalinkAdapter

	// Create infrastructure
	repo := infrastructure.NewMemoryRepository()
	locks := keylock.New[snowflake.ID]()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session.State)
	userInfo := infrastructure.NewDiscordUserInfoProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)
	resolver := infrastructure.NewThrottledResolver(
		m.newResolver(),
		m.config.throttle(),
		m.logger.Named("resolver"),
	)

	// Create services
	playback := usecases.NewPlaybackService(
		repo,
		locks,
		lavalinkAdapter,
		lavalinkAdapter,
		voiceState,
		resolver,
		m.eventBus,
		deps.Clock,
		m.logger,
	)
	queue := usecases.NewQueueService(repo, locks)
	voiceChannel := usecases.NewVoiceChannelService(
		lavalinkAdapter.BotID(),
		repo,
		locks,
		lavalinkAdapter,
		voiceState,
		m.logger,
	)

	// Register application event handlers
	m.playbackHandler = application.NewPlaybackEventHandler(playback, m.eventBus, m.logger)
	m.notificationHandler = application.NewNotificationEventHandler(
		m.eventBus,
		notifier,
		userInfo,
		m.logger,
	)
	if err := m.playbackHandler.Start(); err != nil {
		return err
	}
	if err := m.notificationHandler.Start(); err != nil {
		return err
	}

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(playback, queue, m.logger)
	m.eventHandlers = discord.NewEventHandlers(lavalinkAdapter.BotID(), voiceChannel, m.logger)

	m.logger.Info("initialized music player",
		zap.String("resolver", m.config.ResolverBackend),
		zap.String("lavalink", m.config.LavalinkAddress),
	)

	return nil
}

// newResolver returns the configured lookup backend.
func (m *MusicPlayerModule) newResolver() ports.TrackResolver {
	if m.config.ResolverBackend == ResolverBackendLavalink {
		return infrastructure.NewLavalinkResolver(m.lavalinkAdapter)
	}
	return infrastructure.NewYtdlpResolver(m.logger.Named("ytdlp"))
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}
	return nil
}
