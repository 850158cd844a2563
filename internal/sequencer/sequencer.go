// Package sequencer walks a flattened step list with a persisted cursor.
package sequencer

import (
	"context"
)

// StepSource yields the flattened steps. Implementations must not cache
// across calls.
type StepSource interface {
	Steps(ctx context.Context) ([]string, error)
}

// CursorStore persists the cursor with a fallback policy: Load never fails
// and Save never reports errors.
type CursorStore interface {
	Load(ctx context.Context) int
	Save(ctx context.Context, position int)
}

// Status describes where the cursor stands in the step list.
type Status struct {
	Position int
	Total    int
	Steps    []string
}

// Done reports whether every step has been completed.
func (s Status) Done() bool {
	return s.Position >= s.Total
}

// Current returns the step at the cursor, if any.
func (s Status) Current() (string, bool) {
	if s.Done() {
		return "", false
	}
	return s.Steps[s.Position], true
}

// Sequencer implements get-next, mark-complete and reset. It keeps no state
// between calls; both the steps and the cursor are read fresh each time.
type Sequencer struct {
	source StepSource
	cursor CursorStore
}

// New creates a Sequencer.
func New(source StepSource, cursor CursorStore) *Sequencer {
	return &Sequencer{source: source, cursor: cursor}
}

// Next returns the current step. ok is false once the sequence is exhausted.
func (s *Sequencer) Next(ctx context.Context) (step string, ok bool, err error) {
	st, err := s.Status(ctx)
	if err != nil {
		return "", false, err
	}
	step, ok = st.Current()
	return step, ok, nil
}

// Complete advances the cursor by one. Completing past the end is a no-op.
func (s *Sequencer) Complete(ctx context.Context) error {
	st, err := s.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Done() {
		s.cursor.Save(ctx, st.Position+1)
	}
	return nil
}

// Reset moves the cursor back to the first step, regardless of where it was.
// The steps are loaded only to confirm they are available.
func (s *Sequencer) Reset(ctx context.Context) error {
	if _, err := s.source.Steps(ctx); err != nil {
		return err
	}
	s.cursor.Save(ctx, 0)
	return nil
}

// Status loads the steps and the cursor.
func (s *Sequencer) Status(ctx context.Context) (Status, error) {
	steps, err := s.source.Steps(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Position: s.cursor.Load(ctx),
		Total:    len(steps),
		Steps:    steps,
	}, nil
}
