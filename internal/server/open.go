package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/stepmcp/internal/config"
	"github.com/raphaelgruber/stepmcp/internal/cursor"
	"github.com/raphaelgruber/stepmcp/internal/sequencer"
	"github.com/raphaelgruber/stepmcp/internal/steps"
	"github.com/raphaelgruber/stepmcp/internal/tools"
)

// OpenSequencer builds a Sequencer over the configured step file and cursor
// backend. The returned cursor store must be closed by the caller.
func OpenSequencer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sequencer.Sequencer, *cursor.Store, error) {
	store, err := cursor.Open(ctx, cursor.Options{
		Kind:     cfg.CursorBackend,
		FilePath: cfg.CursorFile,
		DBPath:   cfg.CursorDB,
		Runbook:  cfg.Runbook,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open cursor store: %w", err)
	}

	return sequencer.New(steps.NewFileSource(cfg.StepsFile), store), store, nil
}

// Open builds a fully wired server from cfg, with middleware installed.
// The returned cleanup closes the cursor store.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, func() error, error) {
	seq, store, err := OpenSequencer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	registry := tools.NewRegistry(cfg.Vocabulary, &tools.Dependencies{
		Sequencer: seq,
		Logger:    logger,
	})

	srv := New(cfg.ServerName, registry, logger)
	srv.Setup()

	return srv, store.Close, nil
}
