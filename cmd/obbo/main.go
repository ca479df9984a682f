// Package main is the entry point for Obbo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/samdwyer/obbo/internal/audio"
	"github.com/samdwyer/obbo/internal/config"
	"github.com/samdwyer/obbo/internal/game"
	"github.com/samdwyer/obbo/internal/logging"
	"github.com/samdwyer/obbo/internal/telemetry"
	"github.com/samdwyer/obbo/internal/ui"
)

func main() {
	configPath := flag.String("config", os.Getenv("OBBO_CONFIG"), "path to a YAML config file")
	flag.Parse()

	// Not fatal: variables may be set directly.
	if err := config.LoadEnv(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}
	setupOTelEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logger.Warn("telemetry setup failed, running without traces", zap.Error(err))
			telemetry.Disable()
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown failed", zap.Error(err))
				}
			}()
		}
	} else {
		telemetry.Disable()
	}

	sfx := newAudio(cfg, logger)
	if c, ok := sfx.(interface{ Close() }); ok {
		defer c.Close()
	}

	screen, err := ui.NewScreen()
	if err != nil {
		logger.Fatal("failed to open terminal", zap.Error(err))
	}

	g, err := game.New(ctx, cfg, logger, sfx, screen)
	if err != nil {
		screen.Close()
		logger.Fatal("failed to initialize game", zap.Error(err))
	}

	if err := g.Run(ctx); err != nil {
		logger.Fatal("game error", zap.Error(err))
	}
}

// newAudio opens the speaker, falling back to silence when it cannot.
func newAudio(cfg *config.Config, logger *zap.Logger) audio.Bank {
	if !cfg.Audio.Enabled {
		return audio.NewSilentBank()
	}
	bank, err := audio.NewBeepBank(cfg.Audio.SFXDir, audio.DefaultSpecs, logger)
	if err != nil {
		logger.Warn("audio unavailable, sound is off", zap.Error(err))
		return audio.NewSilentBank()
	}
	return bank
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is
// set and no endpoint is configured.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_OBBO_API_KEY")
	if apiKey == "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_OBBO_DATASET")
	if dataset == "" {
		dataset = telemetry.DefaultServiceName
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
