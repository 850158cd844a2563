package tools

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/stepmcp/internal/config"
)

// Names are the tool names and direct result key for one vocabulary.
type Names struct {
	GetNext      string
	MarkComplete string
	Reset        string
	ResultKey    string
}

// NamesFor returns the names used by vocabulary v.
func NamesFor(v config.Vocabulary) Names {
	if v == config.VocabularyTask {
		return Names{
			GetNext:      "get_next_task",
			MarkComplete: "mark_task_complete",
			Reset:        "reset_tasks",
			ResultKey:    "task",
		}
	}
	return Names{
		GetNext:      "get_next_step",
		MarkComplete: "mark_step_complete",
		Reset:        "reset_steps",
		ResultKey:    "step",
	}
}

// Registry is the fixed catalog of step tools, in advertised order.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry builds the three step tools for vocabulary v.
func NewRegistry(v config.Vocabulary, deps *Dependencies) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	names := NamesFor(v)

	r := &Registry{byName: make(map[string]*Tool, 3)}

	// Get next - current step or null when finished
	r.add(&mcp.Tool{
		Name:        names.GetNext,
		Description: "Return the current step (one-line command) or null if finished.",
		InputSchema: emptyInputSchema(),
	}, NewGetNextHandler(deps, names.ResultKey), deps.Logger)

	// Mark complete - advance the cursor
	r.add(&mcp.Tool{
		Name:        names.MarkComplete,
		Description: "Advance the step pointer by one.",
		InputSchema: emptyInputSchema(),
	}, NewMarkCompleteHandler(deps), deps.Logger)

	// Reset - back to the first step
	r.add(&mcp.Tool{
		Name:        names.Reset,
		Description: "Reset step pointer to the beginning.",
		InputSchema: emptyInputSchema(),
	}, NewResetHandler(deps), deps.Logger)

	return r
}

func (r *Registry) add(def *mcp.Tool, run Handler, logger *slog.Logger) {
	t := &Tool{Def: def, Run: run, logger: logger}
	r.tools = append(r.tools, t)
	r.byName[def.Name] = t
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns the tool definitions in advertised order.
func (r *Registry) List() []*mcp.Tool {
	defs := make([]*mcp.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	return defs
}

// emptyInputSchema describes a tool that takes no arguments.
func emptyInputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}
