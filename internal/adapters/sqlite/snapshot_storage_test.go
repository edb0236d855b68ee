package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nampham423/IOT-All/internal/domain"
)

func newTestStorage(t *testing.T) *SnapshotStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	storage, err := NewSnapshotStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create SQLite storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestReadSnapshot_Empty(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.ReadSnapshot(context.Background())
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteThenReadSnapshot(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	payload := []byte(`[{"temperature":21,"humidity":40,"light":300}]`)
	if err := storage.WriteSnapshot(ctx, payload); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	got, err := storage.ReadSnapshot(ctx)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %s, want %s", got, payload)
	}
}

func TestWriteSnapshot_Overwrites(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_ = storage.WriteSnapshot(ctx, []byte(`[{"temperature":1}]`))
	_ = storage.WriteSnapshot(ctx, []byte(`[{"temperature":2}]`))

	got, err := storage.ReadSnapshot(ctx)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if string(got) != `[{"temperature":2}]` {
		t.Errorf("expected second write to win, got %s", got)
	}

	var rows int
	if err := storage.db.QueryRow(`SELECT COUNT(*) FROM window_snapshot`).Scan(&rows); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected a single snapshot row, got %d", rows)
	}
}

func TestReopenKeepsSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := NewSnapshotStorage(dbPath)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_ = first.WriteSnapshot(ctx, []byte(`[{"light":7}]`))
	first.Close()

	second, err := NewSnapshotStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	got, err := second.ReadSnapshot(ctx)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if string(got) != `[{"light":7}]` {
		t.Errorf("got %s after reopen", got)
	}
}
