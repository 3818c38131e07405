package moderation

import (
	"fmt"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/application"
	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"github.com/caarlos0/env/v11"
)

// Config holds the moderation module configuration.
type Config struct {
	RulesPath        string        `env:"MODERATION_RULES_PATH"`
	ExpirationWindow time.Duration `env:"STRIKE_EXPIRATION_WINDOW" envDefault:"4h"`
	SweepInterval    time.Duration `env:"STRIKE_SWEEP_INTERVAL"    envDefault:"10m"`
	ReplyDelay       time.Duration `env:"REPLY_DELAY"              envDefault:"1s"`
	ModLogChannel    string        `env:"MOD_LOG_CHANNEL"          envDefault:"code"`
	LogMatchedTerm   bool          `env:"LOG_MATCHED_TERM"         envDefault:"false"`
}

// loadConfig parses the module configuration from the environment.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ExpirationWindow <= 0 {
		return fmt.Errorf("STRIKE_EXPIRATION_WINDOW must be positive, got %s", c.ExpirationWindow)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("STRIKE_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.ReplyDelay < 0 {
		return fmt.Errorf("REPLY_DELAY must not be negative, got %s", c.ReplyDelay)
	}
	return nil
}

func (c *Config) engine(rules Rules) application.EngineConfig {
	return application.EngineConfig{
		Ladder:         domain.Ladder(rules.Ladder),
		Window:         c.ExpirationWindow,
		SweepInterval:  c.SweepInterval,
		LogMatchedTerm: c.LogMatchedTerm,
	}
}

func (c *Config) service(rules Rules) application.ServiceConfig {
	return application.ServiceConfig{
		Taunts:     rules.Taunts,
		FollowUp:   rules.FollowUp,
		ReplyDelay: c.ReplyDelay,
	}
}
