// Package cursor persists the index of the next unexecuted step.
//
// Backends report errors honestly; Store applies the fallback policy on top
// of them: unreadable or invalid values read as 0, and failed writes are
// logged and dropped.
package cursor

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoCursor is returned by backends when no value has been persisted yet.
var ErrNoCursor = errors.New("no cursor persisted")

// Backend is durable storage for a single cursor value.
type Backend interface {
	// Read returns the persisted value. Implementations return ErrNoCursor
	// when nothing has been written yet.
	Read(ctx context.Context) (int, error)
	// Write replaces the persisted value.
	Write(ctx context.Context, position int) error
	Close() error
}

// Store applies the read/write fallback policy over a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps backend. A nil logger discards policy log lines.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// Load returns the persisted position, or 0 when it is absent, unreadable or
// negative. It never fails.
func (s *Store) Load(ctx context.Context) int {
	position, err := s.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoCursor):
		return 0
	case err != nil:
		s.logger.Debug("cursor unreadable, using 0", "error", err)
		return 0
	case position < 0:
		s.logger.Debug("cursor negative, using 0", "position", position)
		return 0
	}
	return position
}

// Save persists position. Write failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, position int) {
	if err := s.backend.Write(ctx, position); err != nil {
		s.logger.Warn("failed to persist cursor", "position", position, "error", err)
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
