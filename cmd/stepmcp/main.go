// Package main provides the entry point for the stepmcp server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/raphaelgruber/stepmcp/internal/config"
	"github.com/raphaelgruber/stepmcp/internal/server"
)

func main() {
	// Load configuration (.env first, the environment wins)
	envErr := config.LoadDotEnvFromCwd()
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger = logger.With("session", uuid.NewString())
	if envErr != nil {
		logger.Warn("failed to load .env", "error", envErr)
	}

	// Log startup info
	logger.Info("stepmcp starting",
		"version", server.Version,
		"name", cfg.ServerName,
		"vocabulary", cfg.Vocabulary,
		"steps_file", cfg.StepsFile,
		"cursor_backend", cfg.CursorBackend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	srv, closeStore, err := server.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open cursor store", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing cursor store")
		if err := closeStore(); err != nil {
			logger.Warn("failed to close cursor store", "error", err)
		}
	}()

	logger.Info("server ready, awaiting requests")

	// Run server (blocks until EOF or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete", "metrics", srv.Metrics().Snapshot())
}
