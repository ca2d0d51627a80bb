package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"tchat/internal"
	"tchat/moderation"
	"tchat/observability"
	"tchat/runtime"
	"tchat/runtime/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so that
// defers execute and errors are reported from a single place.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation (optional)
	var filter *moderation.Filter
	if config.ModerationEnabled {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		dict, err := moderation.LoadDictionary()
		if err != nil {
			return fmt.Errorf("moderation dictionary: %w", err)
		}
		log.Info("Moderation enabled",
			"words", len(dict.Words), "languages", dict.Languages)
		filter, err = moderation.NewFilter(dict.Words, replacement)
		if err != nil {
			return fmt.Errorf("moderation filter: %w", err)
		}
	}

	// 3. Core components
	stats := observability.NewStats()
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, stats)
	supervisor := workers.NewSupervisor(log)
	server := runtime.NewServer(log, registry, router, filter, stats, supervisor)

	// 4. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Telemetry
	telemetry, err := workers.NewTelemetryWorker(log, stats, config.TelemetryInterval)
	if err != nil {
		return fmt.Errorf("telemetry init: %w", err)
	}
	supervisor.Start(ctx, telemetry)

	// 6. Serve until interrupted
	if err := server.ListenAndServe(ctx, config.Addr()); err != nil {
		return err
	}

	// 7. Final cleanup: wait for sessions and telemetry to finish
	supervisor.Wait()
	log.Info("Program stopped cleanly")
	return nil
}
