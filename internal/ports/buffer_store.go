package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/nampham423/IOT-All/internal/domain"
)

// BufferStore loads and saves the shared window snapshot.
//
// Both loops read-modify-write the same snapshot without coordination;
// whichever saves last wins, and the other tick's sample is lost.
// Each save is a full, well-formed window, so capacity and ordering
// hold regardless of interleaving.
type BufferStore struct {
	storage  domain.SnapshotStorage
	capacity int
}

// NewBufferStore wraps storage with the window contract for capacity N
func NewBufferStore(storage domain.SnapshotStorage, capacity int) *BufferStore {
	if capacity <= 0 {
		capacity = domain.DefaultWindowSize
	}
	return &BufferStore{
		storage:  storage,
		capacity: capacity,
	}
}

// Load returns a ready window.
// It fails with domain.ErrNotFound before the first save, with
// domain.ErrWindowWarming when fewer than N samples are stored, and
// with domain.ErrMalformed when the snapshot cannot be parsed.
func (b *BufferStore) Load(ctx context.Context) (*domain.Window, error) {
	w, err := b.LoadPartial(ctx)
	if err != nil {
		return nil, err
	}
	if !w.IsReady() {
		return nil, fmt.Errorf("%w: have %d of %d samples", domain.ErrWindowWarming, w.Len(), w.Cap())
	}
	return w, nil
}

// LoadPartial returns whatever well-formed window is stored, truncated to the newest N
func (b *BufferStore) LoadPartial(ctx context.Context) (*domain.Window, error) {
	data, err := b.storage.ReadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read snapshot from %s: %w", b.storage.Location(), err)
	}
	return domain.DecodeSnapshot(data, b.capacity)
}

// Save overwrites the snapshot with the full window
func (b *BufferStore) Save(ctx context.Context, w *domain.Window) error {
	data, err := domain.EncodeSnapshot(w)
	if err != nil {
		return err
	}
	if err := b.storage.WriteSnapshot(ctx, data); err != nil {
		return fmt.Errorf("failed to write snapshot to %s: %w", b.storage.Location(), err)
	}
	return nil
}

// Capacity returns N
func (b *BufferStore) Capacity() int {
	return b.capacity
}

// Location describes the underlying storage
func (b *BufferStore) Location() string {
	return b.storage.Location()
}
