package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/stepmcp/internal/config"
	"github.com/raphaelgruber/stepmcp/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequencer is a scripted in-memory Sequencer.
type fakeSequencer struct {
	steps    []string
	position int
	err      error
}

func (f *fakeSequencer) Next(context.Context) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	if f.position >= len(f.steps) {
		return "", false, nil
	}
	return f.steps[f.position], true, nil
}

func (f *fakeSequencer) Complete(context.Context) error {
	if f.err != nil {
		return f.err
	}
	if f.position < len(f.steps) {
		f.position++
	}
	return nil
}

func (f *fakeSequencer) Reset(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.position = 0
	return nil
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be TextContent")
	return text.Text
}

func TestNamesFor(t *testing.T) {
	step := NamesFor(config.VocabularyStep)
	assert.Equal(t, Names{"get_next_step", "mark_step_complete", "reset_steps", "step"}, step)

	task := NamesFor(config.VocabularyTask)
	assert.Equal(t, Names{"get_next_task", "mark_task_complete", "reset_tasks", "task"}, task)
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry(config.VocabularyStep, &Dependencies{Sequencer: &fakeSequencer{}})

	defs := r.List()
	require.Len(t, defs, 3)
	assert.Equal(t, "get_next_step", defs[0].Name)
	assert.Equal(t, "mark_step_complete", defs[1].Name)
	assert.Equal(t, "reset_steps", defs[2].Name)

	for _, def := range defs {
		assert.NotEmpty(t, def.Description)
		schema, err := json.Marshal(def.InputSchema)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"object","properties":{},"required":[]}`, string(schema))
	}

	_, ok := r.Lookup("get_next_task")
	assert.False(t, ok, "task names are not routed under the step vocabulary")
}

func TestTools_CallConvention(t *testing.T) {
	ctx := context.Background()
	seq := &fakeSequencer{steps: []string{"a", "b"}}
	r := NewRegistry(config.VocabularyStep, &Dependencies{Sequencer: seq})

	getNext, _ := r.Lookup("get_next_step")
	complete, _ := r.Lookup("mark_step_complete")
	reset, _ := r.Lookup("reset_steps")

	assert.Equal(t, "a", textOf(t, getNext.Call(ctx)))
	assert.Equal(t, "ok", textOf(t, complete.Call(ctx)))
	assert.Equal(t, "b", textOf(t, getNext.Call(ctx)))
	assert.Equal(t, "ok", textOf(t, complete.Call(ctx)))
	assert.Equal(t, "null", textOf(t, getNext.Call(ctx)))
	assert.Equal(t, "ok", textOf(t, complete.Call(ctx)))
	assert.Equal(t, "ok", textOf(t, reset.Call(ctx)))
	assert.Equal(t, "a", textOf(t, getNext.Call(ctx)))
}

func TestTools_DirectConvention(t *testing.T) {
	ctx := context.Background()
	seq := &fakeSequencer{steps: []string{"a"}}
	r := NewRegistry(config.VocabularyTask, &Dependencies{Sequencer: seq})

	getNext, ok := r.Lookup("get_next_task")
	require.True(t, ok)
	complete, _ := r.Lookup("mark_task_complete")
	reset, _ := r.Lookup("reset_tasks")

	got, err := getNext.Direct(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"task": "a"}, got)

	got, err = complete.Direct(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusResult{Status: "ok"}, got)

	got, err = getNext.Direct(ctx)
	require.NoError(t, err)
	js, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"task":null}`, string(js))

	got, err = reset.Direct(ctx)
	require.NoError(t, err)
	js, err = json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(js))
}

func TestTools_StepsUnavailable(t *testing.T) {
	ctx := context.Background()
	seq := &fakeSequencer{err: steps.ErrStepsUnavailable}
	r := NewRegistry(config.VocabularyStep, &Dependencies{Sequencer: seq})

	for _, def := range r.List() {
		tool, _ := r.Lookup(def.Name)

		result := tool.Call(ctx)
		assert.Equal(t, "steps.yaml not found or invalid", textOf(t, result), def.Name)
		assert.False(t, result.IsError, "failure is carried as ordinary content")

		_, err := tool.Direct(ctx)
		assert.ErrorIs(t, err, steps.ErrStepsUnavailable, def.Name)
	}
}

func TestTextResult_JSONShape(t *testing.T) {
	js, err := json.Marshal(TextResult("ok"))
	require.NoError(t, err)

	var decoded struct {
		Content []map[string]any `json:"content"`
	}
	require.NoError(t, json.Unmarshal(js, &decoded))
	require.Len(t, decoded.Content, 1)
	assert.Equal(t, "text", decoded.Content[0]["type"])
	assert.Equal(t, "ok", decoded.Content[0]["text"])
}
