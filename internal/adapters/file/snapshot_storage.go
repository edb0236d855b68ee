package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nampham423/IOT-All/internal/domain"
)

// SnapshotStorage implements domain.SnapshotStorage with a JSON file.
// Writes go to a temporary file in the same directory which then replaces
// the snapshot, so readers never observe a partial write. Two concurrent
// writers still race; the later rename wins.
type SnapshotStorage struct {
	path string
}

// NewSnapshotStorage creates a file-backed storage at path.
// The file itself is created by the first write.
func NewSnapshotStorage(path string) (*SnapshotStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotStorage{path: path}, nil
}

// ReadSnapshot reads the whole file
func (s *SnapshotStorage) ReadSnapshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// WriteSnapshot writes data to a temp file and renames it over the snapshot
func (s *SnapshotStorage) WriteSnapshot(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Location returns the snapshot file path
func (s *SnapshotStorage) Location() string {
	return s.path
}
