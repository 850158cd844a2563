package steps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_Flatten(t *testing.T) {
	def, err := Parse([]byte(`
stages:
  - name: build
    steps:
      - make deps
      - make build
  - name: empty
  - name: ship
    steps:
      - ~
      - echo 010
      - null
      - "a && b"
`))
	require.NoError(t, err)
	require.Len(t, def.Stages, 3)
	assert.Equal(t, "build", def.Stages[0].Name)
	assert.Empty(t, def.Stages[1].Steps)
	assert.Equal(t, []string{"make deps", "make build", "echo 010", "a && b"}, def.Flatten())
}

func TestParse_ScalarsKeepSourceText(t *testing.T) {
	def, err := Parse([]byte("stages:\n  - steps: [true, 1.50, 42, \"null\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "1.50", "42", "null"}, def.Flatten())
}

func TestParse_Aliases(t *testing.T) {
	def, err := Parse([]byte(`
common: &common
  - lint
  - test
stages:
  - steps: *common
  - steps: [deploy]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"lint", "test", "deploy"}, def.Flatten())
}

func TestParse_EmptyStagesIsValid(t *testing.T) {
	def, err := Parse([]byte("stages: []\n"))
	require.NoError(t, err)
	assert.Empty(t, def.Flatten())
	assert.NotNil(t, def.Flatten())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"comment only", "# nothing\n"},
		{"malformed yaml", "stages: [a, b\n"},
		{"top-level sequence", "- a\n- b\n"},
		{"top-level scalar", "hello\n"},
		{"missing stages", "steps: [a]\n"},
		{"stages not a sequence", "stages: {a: b}\n"},
		{"stages null", "stages:\n"},
		{"stage not a mapping", "stages:\n  - just a string\n"},
		{"steps not a sequence", "stages:\n  - steps: echo hi\n"},
		{"steps null", "stages:\n  - steps:\n"},
		{"nested step", "stages:\n  - steps:\n      - [a, b]\n"},
		{"mapping step", "stages:\n  - steps:\n      - run: a\n"},
		{"multiple documents", "stages:\n  - steps: [a]\n---\nstages:\n  - steps: [b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStepsUnavailable), "got %v", err)
		})
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	def, err := Parse([]byte(`
stages:
  - steps: [a]
stages:
  - name: second
    steps: [b]
    steps: [c]
`))
	require.NoError(t, err)
	require.Len(t, def.Stages, 1)
	assert.Equal(t, "second", def.Stages[0].Name)
	assert.Equal(t, []string{"c"}, def.Flatten())
}

func TestParse_ExplicitSingleDocument(t *testing.T) {
	def, err := Parse([]byte("---\nstages:\n  - steps: [a]\n...\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, def.Flatten())
}

func TestLoadSteps_MissingFile(t *testing.T) {
	_, err := LoadSteps(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrStepsUnavailable)
}

func TestErrStepsUnavailable_Message(t *testing.T) {
	assert.Equal(t, "steps.yaml not found or invalid", ErrStepsUnavailable.Error())
}

func TestFileSource_RereadsOnEveryCall(t *testing.T) {
	path := writeFile(t, "stages:\n  - steps: [a]\n")
	src := NewFileSource(path)
	ctx := context.Background()

	got, err := src.Steps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	require.NoError(t, os.WriteFile(path, []byte("stages:\n  - steps: [a, b]\n"), 0o644))
	got, err = src.Steps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, os.Remove(path))
	_, err = src.Steps(ctx)
	assert.ErrorIs(t, err, ErrStepsUnavailable)
}

func TestFileSource_CancelledContext(t *testing.T) {
	path := writeFile(t, "stages:\n  - steps: [a]\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource(path).Steps(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
