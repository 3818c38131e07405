package music_player

import (
	"fmt"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/infrastructure"
	"github.com/caarlos0/env/v11"
)

// Resolver backends.
const (
	ResolverBackendYtdlp    = "ytdlp"
	ResolverBackendLavalink = "lavalink"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"  envDefault:"localhost:2333"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD" envDefault:"youshallnotpass"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"   envDefault:"false"`

	ResolverBackend      string        `env:"RESOLVER_BACKEND"        envDefault:"ytdlp"`
	ResolveRatePerSecond float64       `env:"RESOLVE_RATE_PER_SECOND" envDefault:"2"`
	ResolveBurst         int           `env:"RESOLVE_BURST"           envDefault:"4"`
	ResolveConcurrency   int64         `env:"RESOLVE_CONCURRENCY"     envDefault:"4"`
	ResolveTimeout       time.Duration `env:"RESOLVE_TIMEOUT"         envDefault:"30s"`
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
	switch c.ResolverBackend {
	case ResolverBackendYtdlp, ResolverBackendLavalink:
	default:
		return fmt.Errorf("unknown RESOLVER_BACKEND %q, want %q or %q",
			c.ResolverBackend, ResolverBackendYtdlp, ResolverBackendLavalink)
	}
	if c.ResolveConcurrency < 1 {
		return fmt.Errorf("RESOLVE_CONCURRENCY must be at least 1, got %d", c.ResolveConcurrency)
	}
	if c.ResolveRatePerSecond < 0 {
		return fmt.Errorf("RESOLVE_RATE_PER_SECOND must not be negative, got %v", c.ResolveRatePerSecond)
	}
	return nil
}

func (c *Config) lavalink() infrastructure.LavalinkConfig {
	return infrastructure.LavalinkConfig{
		Address:  c.LavalinkAddress,
		Password: c.LavalinkPassword,
		Secure:   c.LavalinkSecure,
	}
}

func (c *Config) throttle() infrastructure.ThrottleConfig {
	return infrastructure.ThrottleConfig{
		RatePerSecond: c.ResolveRatePerSecond,
		Burst:         c.ResolveBurst,
		Concurrency:   c.ResolveConcurrency,
		Timeout:       c.ResolveTimeout,
	}
}
