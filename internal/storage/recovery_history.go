package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/liftlens/internal/recovery"
)

// Compile-time check: *DB satisfies the recovery history store.
var _ recovery.HistoryStore = (*DB)(nil)

// Append stores one recovery snapshot as a timestamped history entry.
func (db *DB) Append(ctx context.Context, s recovery.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO recovery_history (computed_at, snapshot) VALUES ($1, $2)`,
		s.ComputedAt, payload)
	if err != nil {
		return fmt.Errorf("inserting recovery snapshot: %w", err)
	}
	return nil
}

// Recent returns the snapshots computed at or after the cutoff, oldest first.
func (db *DB) Recent(ctx context.Context, since time.Time) ([]recovery.Snapshot, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT snapshot FROM recovery_history
		 WHERE computed_at >= $1
		 ORDER BY computed_at ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("querying recovery history: %w", err)
	}
	defer rows.Close()

	var snapshots []recovery.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning recovery snapshot: %w", err)
		}
		var s recovery.Snapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decoding recovery snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Prune deletes history entries older than the cutoff.
func (db *DB) Prune(ctx context.Context, before time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM recovery_history WHERE computed_at < $1`, before)
	if err != nil {
		return fmt.Errorf("pruning recovery history: %w", err)
	}
	return nil
}

// Clear wipes the entire recovery history. Destructive and irreversible.
func (db *DB) Clear(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM recovery_history`)
	if err != nil {
		return fmt.Errorf("clearing recovery history: %w", err)
	}
	return nil
}
