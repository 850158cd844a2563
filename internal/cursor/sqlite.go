package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

const cursorSchema = `CREATE TABLE IF NOT EXISTS cursors (
	runbook TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteBackend stores one cursor per runbook name in a SQLite database.
type SQLiteBackend struct {
	db      *sql.DB
	runbook string
}

// NewSQLiteBackend opens (or creates) the database at dbPath and ensures the
// cursors table exists.
func NewSQLiteBackend(ctx context.Context, dbPath, runbook string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cursor database: %w", err)
	}

	if _, err := db.ExecContext(ctx, cursorSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cursors table: %w", err)
	}

	return &SQLiteBackend{db: db, runbook: runbook}, nil
}

func (b *SQLiteBackend) Read(ctx context.Context) (int, error) {
	var position int
	err := b.db.QueryRowContext(ctx,
		`SELECT position FROM cursors WHERE runbook = ?`, b.runbook,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoCursor
	}
	if err != nil {
		return 0, fmt.Errorf("query cursor: %w", err)
	}
	return position, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, position int) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO cursors (runbook, position, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(runbook) DO UPDATE SET position = excluded.position, updated_at = CURRENT_TIMESTAMP`,
		b.runbook, position,
	)
	if err != nil {
		return fmt.Errorf("upsert cursor: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
