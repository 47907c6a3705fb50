// Package storage holds the key/value blob backends the catalog is persisted to.
// Every backend stores opaque bytes under a key and overwrites them wholesale.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotConfigured indicates the backend connection was not initialised.
	ErrNotConfigured = errors.New("storage: backend not configured")
)

// BlobStore reads and writes whole blobs by key. Load reports ok=false when
// the key has never been written.
type BlobStore interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// Memory keeps blobs in process memory.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

var _ BlobStore = (*Memory)(nil)
