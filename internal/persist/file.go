// Package persist owns durable state: the JSON snapshot file the store is
// mirrored to after every mutation, and the SQLite history archive written
// by the worker.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finpulse/internal/store"
)

// FileStore persists the full snapshot to a single JSON file. Saves are
// write-then-rename so a crash mid-write never corrupts the previous copy.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the snapshot file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the persisted snapshot. A missing or unreadable file is not an
// error: it returns ok=false and the caller starts from the seed snapshot.
// Only filesystem problems other than absence surface as errors.
func (f *FileStore) Load() (store.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Malformed persisted data is treated as "no data"; the previous
		// file is left in place for manual inspection.
		slog.Warn("Persisted snapshot is malformed, starting fresh",
			"path", f.path, "error", err)
		return store.Snapshot{}, false, nil
	}

	return snap, true, nil
}

// Save writes the snapshot, replacing the previous file wholesale.
func (f *FileStore) Save(snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
