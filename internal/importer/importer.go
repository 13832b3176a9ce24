// Package importer loads workout session JSON files from an export
// directory into the database. Files are tracked in a local SQLite
// state database so repeated runs only read new or changed files.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsInserted   int
	SessionsDuplicated int
	SessionsInvalid    int
}

// Importer reads session .json files from a directory and inserts them into the DB.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file
// is read on every run (session inserts are idempotent either way).
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Import processes all .json files under the given directory.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("listing %s: %w", dir, err)
	}

	for _, f := range files {
		if err := imp.importFile(ctx, f); err != nil {
			return &imp.stats, err
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		imp.log.Warn("stat failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			imp.log.Warn("hash failed", "file", path, "error", err)
			imp.stats.FilesErrored++
			return nil
		}

		done, err := imp.state.IsImported(filepath.Base(path), info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", path, err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	sessions, err := DecodeSessions(data)
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	if len(sessions) == 0 {
		imp.stats.FilesSkipped++
		return nil
	}

	imp.stats.FilesProcessed++

	for i := range sessions {
		session := &sessions[i]

		if err := session.Validate(); err != nil {
			imp.log.Warn("invalid session", "file", path, "session", session.ID, "error", err)
			imp.stats.SessionsInvalid++
			continue
		}

		if imp.dryRun {
			imp.stats.SessionsInserted++
			continue
		}

		inserted, err := imp.db.InsertSession(ctx, *session)
		if err != nil {
			return fmt.Errorf("inserting session %s from %s: %w", session.ID, filepath.Base(path), err)
		}
		if inserted {
			imp.stats.SessionsInserted++
		} else {
			imp.stats.SessionsDuplicated++
		}
	}

	if imp.state != nil && !imp.dryRun {
		if err := imp.state.MarkImported(filepath.Base(path), info.Size(), hash); err != nil {
			return fmt.Errorf("marking %s imported: %w", path, err)
		}
	}

	return nil
}

// DecodeSessions parses a session export file. The file may hold either a
// single session object or an array of sessions.
func DecodeSessions(data []byte) ([]models.WorkoutSession, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var sessions []models.WorkoutSession
		if err := json.Unmarshal(data, &sessions); err != nil {
			return nil, fmt.Errorf("parsing session array: %w", err)
		}
		return sessions, nil
	}

	var session models.WorkoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return []models.WorkoutSession{session}, nil
}
