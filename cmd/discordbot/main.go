package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyr597972/DiscordBot/internal/bot"
	_ "github.com/Tyr597972/DiscordBot/internal/modules/moderation"
	_ "github.com/Tyr597972/DiscordBot/internal/modules/music_player"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/discordbot
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := bot.BuildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting discordbot", zap.String("version", version))

	// Create and configure bot
	b := bot.NewBot(cfg, logger)
	if err := b.LoadModules(); err != nil {
		logger.Error("failed to load modules", zap.Error(err))
		return 1
	}

	// Start bot
	if err := b.Start(); err != nil {
		logger.Error("failed to start bot", zap.Error(err))
		_ = b.Stop()
		return 1
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		logger.Error("failed to shutdown", zap.Error(err))
	}

	logger.Info("completed bot shutdown")
	return 0
}
