package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlens/internal/models"
	"github.com/google/uuid"
)

// InsertSession inserts a session with its exercises and sets in one
// transaction. Returns true if inserted, false if the session already exists
// (re-imports are idempotent).
func (db *DB) InsertSession(ctx context.Context, s models.WorkoutSession) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, fmt.Errorf("validating session: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, name, started_at, completed_at, total_duration_sec, total_rest_sec)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT DO NOTHING`,
		s.ID, s.Name, s.StartedAt, s.CompletedAt, s.TotalDurationSec, s.TotalRestSec)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	for pos, entry := range s.Exercises {
		var exerciseID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO session_exercises (session_id, position, name, muscle_groups)
			 VALUES ($1,$2,$3,$4)
			 RETURNING id`,
			s.ID, pos, entry.Name, entry.MuscleGroups).Scan(&exerciseID)
		if err != nil {
			return false, fmt.Errorf("inserting exercise %q: %w", entry.Name, err)
		}

		for setPos, set := range entry.Sets {
			_, err := tx.Exec(ctx,
				`INSERT INTO exercise_sets (exercise_id, position, is_completed, reps, weight_kg, duration_sec, rest_sec)
				 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				exerciseID, setPos, set.IsCompleted, set.ActualReps,
				set.ActualWeightKg, set.ActualDurationSec, set.RestDurationSec)
			if err != nil {
				return false, fmt.Errorf("inserting set %d of %q: %w", setPos+1, entry.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing session: %w", err)
	}
	return true, nil
}

// QuerySessions retrieves finalized sessions completed within [start, end),
// fully assembled and ordered oldest first, the shape the analytics core
// expects.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, started_at, completed_at, total_duration_sec, total_rest_sec
		 FROM workout_sessions
		 WHERE completed_at IS NOT NULL AND completed_at >= $1 AND completed_at < $2
		 ORDER BY completed_at ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.Name, &s.StartedAt, &s.CompletedAt, &s.TotalDurationSec, &s.TotalRestSec); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	if err := db.attachExercises(ctx, sessions, index); err != nil {
		return nil, err
	}
	return sessions, nil
}

// AllSessions retrieves the complete finalized history. PR detection and
// progress tracking must always see the full chronology, never a delta.
func (db *DB) AllSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	return db.QuerySessions(ctx, time.Time{}, time.Now().AddDate(0, 0, 1))
}

// GetSession retrieves one session by ID, with exercises and sets.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, started_at, completed_at, total_duration_sec, total_rest_sec
		 FROM workout_sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.StartedAt, &s.CompletedAt, &s.TotalDurationSec, &s.TotalRestSec)
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	sessions := []models.WorkoutSession{s}
	index := map[uuid.UUID]int{s.ID: 0}
	if err := db.attachExercises(ctx, sessions, index); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// attachExercises loads exercises and sets for the given sessions and wires
// them into place, preserving recorded order.
func (db *DB) attachExercises(ctx context.Context, sessions []models.WorkoutSession, index map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.session_id, e.name, e.muscle_groups,
		        s.position, s.is_completed, s.reps, s.weight_kg, s.duration_sec, s.rest_sec
		 FROM session_exercises e
		 LEFT JOIN exercise_sets s ON s.exercise_id = e.id
		 WHERE e.session_id = ANY($1)
		 ORDER BY e.session_id, e.position ASC, s.position ASC`,
		ids)
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	entryIndex := make(map[int64]struct {
		session int
		entry   int
	})

	for exRows.Next() {
		var (
			exerciseID   int64
			sessionID    uuid.UUID
			name         string
			muscleGroups []string
			setPos       *int
			isCompleted  *bool
			reps         *int
			weightKg     *float64
			durationSec  *float64
			restSec      *float64
		)
		if err := exRows.Scan(&exerciseID, &sessionID, &name, &muscleGroups,
			&setPos, &isCompleted, &reps, &weightKg, &durationSec, &restSec); err != nil {
			return fmt.Errorf("scanning exercise row: %w", err)
		}

		si, ok := index[sessionID]
		if !ok {
			continue
		}

		loc, seen := entryIndex[exerciseID]
		if !seen {
			sessions[si].Exercises = append(sessions[si].Exercises, models.ExerciseEntry{
				Name:         name,
				MuscleGroups: muscleGroups,
			})
			loc = struct {
				session int
				entry   int
			}{si, len(sessions[si].Exercises) - 1}
			entryIndex[exerciseID] = loc
		}

		// A LEFT JOIN row with no set columns means an exercise without sets.
		if setPos == nil {
			continue
		}
		set := models.SetRecord{
			IsCompleted:       isCompleted != nil && *isCompleted,
			ActualWeightKg:    weightKg,
			ActualDurationSec: durationSec,
		}
		if reps != nil {
			set.ActualReps = *reps
		}
		if restSec != nil {
			set.RestDurationSec = *restSec
		}
		entry := &sessions[loc.session].Exercises[loc.entry]
		entry.Sets = append(entry.Sets, set)
	}
	return exRows.Err()
}
