package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/claude/liftlens/internal/models"
	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func exportSession() models.WorkoutSession {
	completedAt := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	return models.WorkoutSession{
		ID:          uuid.New(),
		Name:        "Push Day",
		StartedAt:   completedAt.Add(-time.Hour),
		CompletedAt: &completedAt,
		Exercises: []models.ExerciseEntry{
			{
				Name:         "Bench Press",
				MuscleGroups: []string{"chest"},
				Sets: []models.SetRecord{
					{IsCompleted: true, ActualReps: 10, ActualWeightKg: ptr(60), RestDurationSec: 90},
					{IsCompleted: false, ActualReps: 10, ActualWeightKg: ptr(60)},
					{IsCompleted: true, ActualReps: 8, ActualWeightKg: ptr(65), RestDurationSec: 120},
				},
			},
		},
		TotalDurationSec: 3600,
	}
}

// TestRowsCompletedSetsOnly verifies one row per completed set, with set
// numbers counting completed sets only.
func TestRowsCompletedSetsOnly(t *testing.T) {
	rows := Rows([]models.WorkoutSession{exportSession()})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SetNumber != 1 || rows[1].SetNumber != 2 {
		t.Errorf("set numbers = %d, %d, want 1, 2", rows[0].SetNumber, rows[1].SetNumber)
	}
	if rows[0].Date != "2026-03-10" {
		t.Errorf("Date = %q, want 2026-03-10", rows[0].Date)
	}
	if rows[1].VolumeKg != 520 {
		t.Errorf("VolumeKg = %v, want 520", rows[1].VolumeKg)
	}
	if rows[0].DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %v, want 60", rows[0].DurationMinutes)
	}
}

// TestRowsSkipUnfinalized verifies unfinalized sessions export nothing.
func TestRowsSkipUnfinalized(t *testing.T) {
	s := exportSession()
	s.CompletedAt = nil

	if rows := Rows([]models.WorkoutSession{s}); len(rows) != 0 {
		t.Errorf("got %d rows for an unfinalized session, want 0", len(rows))
	}
}

// TestWriteCSV verifies the header line and field count of the CSV output.
func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []models.WorkoutSession{exportSession()}); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d CSV records, want header + 2 rows", len(records))
	}
	if records[0][0] != "date" || records[0][6] != "weight_kg" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Push Day" {
		t.Errorf("workout_name = %q, want Push Day", records[1][1])
	}
	if records[2][7] != "520" {
		t.Errorf("volume_kg = %q, want 520", records[2][7])
	}
}

// TestWriteJSONEmpty verifies an empty history encodes as an empty array,
// not null.
func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}

	var rows []SetRow
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if rows == nil {
		t.Error("JSON output decoded to nil, want empty array")
	}
	if bytes.Contains(bytes.TrimSpace(buf.Bytes()), []byte("null")) {
		t.Errorf("output contains null: %s", buf.String())
	}
}
