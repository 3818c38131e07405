package moderation

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/infrastructure"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/presentation/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

func init() {
	bot.Register(&ModerationModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*ModerationModule)(nil)

// ModerationModule screens chat for banned terms and escalates timeouts for
// repeat offenders.
type ModerationModule struct {
	config          *Config
	rules           Rules
	logger          *zap.Logger
	engine          *application.Engine
	commandHandlers *discord.CommandHandlers
	eventHandlers   *discord.EventHandlers

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Name returns the module name.
func (m *ModerationModule) Name() string {
	return "moderation"
}

// Commands returns the slash commands for this module.
func (m *ModerationModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *ModerationModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"strikes": m.commandHandlers.HandleStrikes,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *ModerationModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.eventHandlers.HandleMessageCreate,
	}
}

// LoadConfig loads the module configuration and its rule file.
func (m *ModerationModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}
	m.config = cfg
	m.rules = rules
	return nil
}

// Init initializes the module and starts the strike sweep.
func (m *ModerationModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return fmt.Errorf("moderation requires a Discord session")
	}
	if deps.Session.State == nil || deps.Session.State.User == nil {
		return fmt.Errorf("moderation requires a connected session")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return fmt.Errorf("failed to parse bot user ID: %w", err)
	}

	m.logger = deps.Logger.Named(m.Name())

	// Create infrastructure
	enforcer := infrastructure.NewEnforcer(deps.Session)
	messenger := infrastructure.NewMessenger(deps.Session, deps.Session.State, m.config.ModLogChannel)

	// Create services
	m.engine = application.NewEngine(m.config.engine(m.rules), enforcer, deps.Clock, m.logger)
	service := application.NewModerationService(
		botID,
		domain.NewFilter(m.rules.BannedTerms),
		m.engine,
		messenger,
		deps.Clock,
		m.config.service(m.rules),
		m.logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.engine.Run(ctx)
	}()

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(service)
	m.eventHandlers = discord.NewEventHandlers(ctx, service, m.logger)

	m.logger.Info("initialized moderation",
		zap.Int("banned_terms", len(m.rules.BannedTerms)),
		zap.Duration("window", m.config.ExpirationWindow),
		zap.String("mod_log_channel", m.config.ModLogChannel),
	)

	return nil
}

// Shutdown stops the strike sweep and abandons pending follow-ups.
func (m *ModerationModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	return nil
}
