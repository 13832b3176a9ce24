package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SetRecord is a single performed set within an exercise entry. Only sets
// with IsCompleted true contribute to any metric; an incomplete set is
// excluded entirely, not zero-filled.
type SetRecord struct {
	IsCompleted       bool     `json:"is_completed"`
	ActualReps        int      `json:"actual_reps"`
	ActualWeightKg    *float64 `json:"actual_weight_kg,omitempty"`
	ActualDurationSec *float64 `json:"actual_duration_seconds,omitempty"`
	RestDurationSec   float64  `json:"rest_duration_seconds"`
}

// WeightKg returns the set weight, treating a missing weight as 0.
func (s SetRecord) WeightKg() float64 {
	if s.ActualWeightKg == nil {
		return 0
	}
	return *s.ActualWeightKg
}

// DurationSec returns the set duration, treating a missing duration as 0.
func (s SetRecord) DurationSec() float64 {
	if s.ActualDurationSec == nil {
		return 0
	}
	return *s.ActualDurationSec
}

// ExerciseEntry is one exercise performed within a session, with its ordered
// sets. MuscleGroups must be non-empty for entries that participate in
// muscle-group coverage analysis.
type ExerciseEntry struct {
	Name         string      `json:"name"`
	MuscleGroups []string    `json:"muscle_groups"`
	Sets         []SetRecord `json:"sets"`
}

// CompletedSets returns the completed sets of the entry, in order.
func (e ExerciseEntry) CompletedSets() []SetRecord {
	var out []SetRecord
	for _, s := range e.Sets {
		if s.IsCompleted {
			out = append(out, s)
		}
	}
	return out
}

// WorkoutSession is one recorded workout. A session is immutable once
// finalized; CompletedAt stays nil until then, and only finalized sessions
// participate in analytics.
type WorkoutSession struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Exercises        []ExerciseEntry `json:"exercises"`
	TotalDurationSec float64         `json:"total_duration_seconds"`
	TotalRestSec     float64         `json:"total_rest_seconds"`
}

// IsFinalized reports whether the session has been completed.
func (s WorkoutSession) IsFinalized() bool {
	return s.CompletedAt != nil && !s.CompletedAt.IsZero()
}

// CompletionDate returns the finalization timestamp, or the zero time for
// sessions that were never finalized.
func (s WorkoutSession) CompletionDate() time.Time {
	if s.CompletedAt == nil {
		return time.Time{}
	}
	return *s.CompletedAt
}

// Validate checks the input-shape invariants the analytics core requires.
// Malformed sessions are the only input condition surfaced as an error.
func (s WorkoutSession) Validate() error {
	if s.ID == uuid.Nil {
		return errors.New("session is missing an identifier")
	}
	if s.StartedAt.IsZero() {
		return errors.New("session is missing a start timestamp")
	}
	return nil
}

// RecordType identifies which tracked value a personal record refers to.
type RecordType string

// Tracked personal record types.
const (
	RecordWeight   RecordType = "weight"
	RecordReps     RecordType = "reps"
	RecordVolume   RecordType = "volume"
	RecordDuration RecordType = "duration"
)

// PersonalRecord is an append-only event: the first session in chronological
// order where a tracked value for an exercise strictly exceeds all prior
// sessions. Once recorded it is never edited, only superseded by a later,
// larger record of the same type.
type PersonalRecord struct {
	Exercise     string     `json:"exercise"`
	Type         RecordType `json:"type"`
	Value        float64    `json:"value"`
	Date         time.Time  `json:"date"`
	PreviousBest *float64   `json:"previous_best,omitempty"`
	Improvement  *float64   `json:"improvement,omitempty"`
}

// ParseSessionTime parses the timestamp formats accepted on the input
// contract: RFC3339 or a bare date.
func ParseSessionTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// DayUTC truncates a timestamp to UTC midnight. All day-granularity
// computations (streaks, bucket boundaries) share this convention so that
// day-boundary choice cannot skew streak outcomes.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
