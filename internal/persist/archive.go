package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finpulse/internal/store"

	_ "modernc.org/sqlite"
)

// ArchiveStore keeps a history of snapshots in SQLite. The worker appends a
// row for each mutation event it consumes, giving a restorable record the
// single JSON file cannot provide.
type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(dbPath string) (*ArchiveStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run archive migrations: %w", err)
	}

	return &ArchiveStore{db: db}, nil
}

func (a *ArchiveStore) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Append stores one snapshot row, tagged with the mutation that triggered
// it, and returns the row id.
func (a *ArchiveStore) Append(ctx context.Context, triggerOp string, snap store.Snapshot) (int64, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	res, err := a.db.ExecContext(ctx,
		`INSERT INTO snapshots (trigger_op, body) VALUES (?, ?)`,
		triggerOp, string(body))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot row id: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot archived", "id", id, "trigger", triggerOp)
	return id, nil
}

// Latest returns the most recent archived snapshot, or ok=false when the
// archive is empty.
func (a *ArchiveStore) Latest(ctx context.Context) (store.Snapshot, bool, error) {
	var body string
	err := a.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("query latest snapshot: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("unmarshal archived snapshot: %w", err)
	}
	return snap, true, nil
}

// Prune deletes archive rows older than the retention window and returns
// how many were removed.
func (a *ArchiveStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC()
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE created_at < ?`, cutoff.Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
