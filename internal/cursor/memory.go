package cursor

import (
	"context"
	"sync"
)

// MemoryBackend holds the cursor in memory. ReadErr and WriteErr, when set,
// are returned instead of touching the value.
type MemoryBackend struct {
	mu       sync.Mutex
	position int
	set      bool

	ReadErr  error
	WriteErr error
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendAt returns a backend already holding position.
func NewMemoryBackendAt(position int) *MemoryBackend {
	return &MemoryBackend{position: position, set: true}
}

func (b *MemoryBackend) Read(_ context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ReadErr != nil {
		return 0, b.ReadErr
	}
	if !b.set {
		return 0, ErrNoCursor
	}
	return b.position, nil
}

func (b *MemoryBackend) Write(_ context.Context, position int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.position = position
	b.set = true
	return nil
}

// Position returns the raw stored value and whether one was written.
func (b *MemoryBackend) Position() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position, b.set
}

func (b *MemoryBackend) Close() error {
	return nil
}
