package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nampham423/IOT-All/internal/domain"
)

// SnapshotStorage implements domain.SnapshotStorage with SQLite.
// The snapshot is a single row that every write replaces.
type SnapshotStorage struct {
	db   *sql.DB
	path string
}

// NewSnapshotStorage opens (or creates) a SQLite-backed snapshot store
func NewSnapshotStorage(dbPath string) (*SnapshotStorage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS window_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SnapshotStorage{db: db, path: dbPath}, nil
}

// ReadSnapshot returns the stored payload
func (s *SnapshotStorage) ReadSnapshot(ctx context.Context) ([]byte, error) {
	query := `SELECT payload FROM window_snapshot WHERE id = 1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return payload, nil
}

// WriteSnapshot replaces the stored payload in one statement
func (s *SnapshotStorage) WriteSnapshot(ctx context.Context, data []byte) error {
	query := `INSERT OR REPLACE INTO window_snapshot (id, payload, updated_at) VALUES (1, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Location returns the database path
func (s *SnapshotStorage) Location() string {
	return s.path
}

// Close closes the database connection
func (s *SnapshotStorage) Close() error {
	return s.db.Close()
}
