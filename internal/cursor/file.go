package cursor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileBackend keeps the cursor as decimal text in a single file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the cursor file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Read parses the trimmed file content. A missing or blank file is ErrNoCursor.
func (b *FileBackend) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNoCursor
	}
	if err != nil {
		return 0, fmt.Errorf("read cursor file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, ErrNoCursor
	}

	position, err := strconv.Atoi(text)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(text, "-") {
		// Too large to represent; still past the end of any step list.
		return math.MaxInt, nil
	}
	if err != nil {
		return 0, fmt.Errorf("parse cursor %q: %w", text, err)
	}
	return position, nil
}

// Write replaces the file through a temp file in the same directory so
// readers never see a partial value.
func (b *FileBackend) Write(ctx context.Context, position int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cursor file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(position)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cursor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp cursor file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace cursor file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (b *FileBackend) Close() error {
	return nil
}
