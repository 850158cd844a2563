package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusOK is reported by mark-complete and reset. Reset is unconditional,
// so there is no "skipped" status.
const StatusOK = "ok"

// exhaustedText is the tools/call text for a finished sequence.
const exhaustedText = "null"

// Outcome is the result of one tool run, rendered for both conventions.
type Outcome struct {
	// Text is the content text for tools/call.
	Text string
	// Result is the structured result for a direct method call.
	Result any
}

// StatusResult is the direct-method result of mark-complete and reset.
type StatusResult struct {
	Status string `json:"status"`
}

// Handler runs a tool. Errors are step loading failures.
type Handler func(ctx context.Context) (Outcome, error)

// Tool pairs a catalog entry with its handler.
type Tool struct {
	Def *mcp.Tool
	Run Handler

	logger *slog.Logger
}

// Call runs the tool for the tools/call convention. Failures become content.
func (t *Tool) Call(ctx context.Context) *mcp.CallToolResult {
	out, err := t.Run(ctx)
	if err != nil {
		t.logger.Warn("tool failed", "tool", t.Def.Name, "error", err)
		return UnavailableResult()
	}
	return TextResult(out.Text)
}

// Direct runs the tool for the direct method convention. Failures are
// returned for the caller to turn into a protocol error.
func (t *Tool) Direct(ctx context.Context) (any, error) {
	out, err := t.Run(ctx)
	if err != nil {
		t.logger.Warn("tool failed", "tool", t.Def.Name, "error", err)
		return nil, err
	}
	return out.Result, nil
}

// NewGetNextHandler returns the step at the cursor, or null once finished.
// resultKey names the field of the direct result ("step" or "task").
func NewGetNextHandler(deps *Dependencies, resultKey string) Handler {
	return func(ctx context.Context) (Outcome, error) {
		step, ok, err := deps.Sequencer.Next(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			deps.Logger.Debug("sequence exhausted")
			return Outcome{Text: exhaustedText, Result: map[string]any{resultKey: nil}}, nil
		}
		deps.Logger.Debug("current step", "step", step)
		return Outcome{Text: step, Result: map[string]any{resultKey: step}}, nil
	}
}

// NewMarkCompleteHandler advances the cursor by one.
func NewMarkCompleteHandler(deps *Dependencies) Handler {
	return func(ctx context.Context) (Outcome, error) {
		if err := deps.Sequencer.Complete(ctx); err != nil {
			return Outcome{}, err
		}
		deps.Logger.Info("step marked complete")
		return Outcome{Text: StatusOK, Result: StatusResult{Status: StatusOK}}, nil
	}
}

// NewResetHandler moves the cursor back to the first step.
func NewResetHandler(deps *Dependencies) Handler {
	return func(ctx context.Context) (Outcome, error) {
		if err := deps.Sequencer.Reset(ctx); err != nil {
			return Outcome{}, err
		}
		deps.Logger.Info("steps reset")
		return Outcome{Text: StatusOK, Result: StatusResult{Status: StatusOK}}, nil
	}
}
