package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// SnapshotStorage holds the serialized window.
// This is a PORT - adapters (file, SQLite, memory) will implement it.
//
// Writes are full overwrites. Nothing coordinates concurrent writers:
// the last complete write wins.
type SnapshotStorage interface {
	// ReadSnapshot returns the last written snapshot, or ErrNotFound
	ReadSnapshot(ctx context.Context) ([]byte, error)

	// WriteSnapshot replaces the snapshot with data
	WriteSnapshot(ctx context.Context, data []byte) error

	// Location describes where the snapshot lives, for logs
	Location() string
}

// EncodeSnapshot serializes the window as an oldest-first JSON array
func EncodeSnapshot(w *Window) ([]byte, error) {
	data, err := json.MarshalIndent(w.Samples(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot into a window of the given capacity.
// Anything other than a JSON array of objects is ErrMalformed.
// Oversized snapshots are truncated from the front.
func DecodeSnapshot(data []byte, capacity int) (*Window, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: not a JSON array", ErrMalformed)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	samples := make([]TelemetrySample, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformed, i)
		}
		var s TelemetrySample
		if err := json.Unmarshal(elem, &s); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
		samples = append(samples, s)
	}

	return WindowFromSequence(capacity, samples), nil
}
