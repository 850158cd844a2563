package cursor

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Kind     string
	FilePath string
	DBPath   string
	Runbook  string
}

// Open creates a Store over the backend selected by opts.Kind.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewStore(NewFileBackend(opts.FilePath), logger), nil
	case KindSQLite:
		backend, err := NewSQLiteBackend(ctx, opts.DBPath, opts.Runbook)
		if err != nil {
			return nil, err
		}
		return NewStore(backend, logger), nil
	default:
		return nil, fmt.Errorf("unknown cursor backend %q", opts.Kind)
	}
}
