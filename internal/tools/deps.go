// Package tools provides the step tools and the adapters that expose them
// through both calling conventions.
package tools

import (
	"context"
	"log/slog"
)

// Sequencer is the step state machine the tools drive.
type Sequencer interface {
	Next(ctx context.Context) (step string, ok bool, err error)
	Complete(ctx context.Context) error
	Reset(ctx context.Context) error
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Sequencer Sequencer
	Logger    *slog.Logger
}
