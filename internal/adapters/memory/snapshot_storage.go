package memory

import (
	"context"
	"sync"

	"github.com/nampham423/IOT-All/internal/domain"
)

// SnapshotStorage implements domain.SnapshotStorage in process memory.
// Useful when collector and predictor run in the same process, and in tests.
type SnapshotStorage struct {
	mu     sync.RWMutex
	data   []byte
	exists bool
}

// NewSnapshotStorage creates an empty storage; reads fail with ErrNotFound until the first write
func NewSnapshotStorage() *SnapshotStorage {
	return &SnapshotStorage{}
}

// ReadSnapshot returns a copy of the last written snapshot
func (s *SnapshotStorage) ReadSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists {
		return nil, domain.ErrNotFound
	}

	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// WriteSnapshot replaces the stored snapshot
func (s *SnapshotStorage) WriteSnapshot(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data[:0:0], data...)
	s.exists = true
	return nil
}

// Location implements domain.SnapshotStorage
func (s *SnapshotStorage) Location() string {
	return "memory"
}
