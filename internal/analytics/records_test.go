package analytics

import (
	"reflect"
	"testing"

	"github.com/claude/liftlens/internal/models"
)

// TestDetectRecordsFirstSessionSeeds verifies the baseline rule: three bench
// press sessions at 60, 60, and 70 kg max weight yield exactly one weight
// record, for the 70 kg session, with previous best 60 and improvement 10.
func TestDetectRecordsFirstSessionSeeds(t *testing.T) {
	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600, entry("Bench Press", completedSet(5, 60))),
		finalizedSession(day(2), 3600, entry("Bench Press", completedSet(5, 60))),
		finalizedSession(day(4), 3600, entry("Bench Press", completedSet(5, 70))),
	}

	var weightRecords []models.PersonalRecord
	for _, r := range DetectRecords(sessions) {
		if r.Type == models.RecordWeight {
			weightRecords = append(weightRecords, r)
		}
	}

	if len(weightRecords) != 1 {
		t.Fatalf("got %d weight records, want 1: %+v", len(weightRecords), weightRecords)
	}
	r := weightRecords[0]
	if r.Value != 70 {
		t.Errorf("Value = %v, want 70", r.Value)
	}
	if r.PreviousBest == nil || *r.PreviousBest != 60 {
		t.Errorf("PreviousBest = %v, want 60", r.PreviousBest)
	}
	if r.Improvement == nil || *r.Improvement != 10 {
		t.Errorf("Improvement = %v, want 10", r.Improvement)
	}
	if !r.Date.Equal(day(4)) {
		t.Errorf("Date = %v, want %v", r.Date, day(4))
	}
}

// TestDetectRecordsTieIsNotARecord verifies that equalling the running best
// never emits an event.
func TestDetectRecordsTieIsNotARecord(t *testing.T) {
	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600, entry("Squat", completedSet(5, 100))),
		finalizedSession(day(1), 3600, entry("Squat", completedSet(5, 100))),
	}

	if records := DetectRecords(sessions); len(records) != 0 {
		t.Errorf("got %d records for tied sessions, want 0: %+v", len(records), records)
	}
}

// TestDetectRecordsReplayDeterministic verifies that replaying the same
// history produces an identical event list.
func TestDetectRecordsReplayDeterministic(t *testing.T) {
	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600,
			entry("Bench Press", completedSet(8, 60)),
			entry("Squat", completedSet(5, 100)),
			entry("Deadlift", completedSet(5, 120)),
		),
		finalizedSession(day(3), 3600,
			entry("Squat", completedSet(6, 110)),
			entry("Bench Press", completedSet(10, 62.5)),
		),
		finalizedSession(day(5), 3600,
			entry("Deadlift", completedSet(3, 140)),
			entry("Squat", completedSet(5, 105)),
		),
	}

	first := DetectRecords(sessions)
	for i := 0; i < 5; i++ {
		if again := DetectRecords(sessions); !reflect.DeepEqual(first, again) {
			t.Fatalf("replay %d produced a different event list:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

// TestDetectRecordsCaseInsensitive verifies the running bests match exercise
// names case-insensitively across sessions.
func TestDetectRecordsCaseInsensitive(t *testing.T) {
	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600, entry("Bench Press", completedSet(5, 60))),
		finalizedSession(day(1), 3600, entry("bench press", completedSet(5, 80))),
	}

	records := DetectRecords(sessions)
	var weightCount int
	for _, r := range records {
		if r.Type == models.RecordWeight {
			weightCount++
			if r.Exercise != "bench press" {
				t.Errorf("Exercise = %q, want lowercase key", r.Exercise)
			}
		}
	}
	if weightCount != 1 {
		t.Errorf("got %d weight records, want 1", weightCount)
	}
}

// TestDetectRecordsVolumeFormula verifies the volume record uses session max
// weight times session total reps.
func TestDetectRecordsVolumeFormula(t *testing.T) {
	sessions := []models.WorkoutSession{
		// max 60, total reps 10 -> volume baseline 600
		finalizedSession(day(0), 3600, entry("Bench Press", completedSet(5, 60), completedSet(5, 50))),
		// max 60, total reps 12 -> volume 720
		finalizedSession(day(2), 3600, entry("Bench Press", completedSet(6, 60), completedSet(6, 55))),
	}

	var volume *models.PersonalRecord
	for _, r := range DetectRecords(sessions) {
		if r.Type == models.RecordVolume {
			r := r
			volume = &r
		}
	}

	if volume == nil {
		t.Fatal("no volume record emitted")
	}
	if volume.Value != 720 {
		t.Errorf("Value = %v, want 720", volume.Value)
	}
	if volume.PreviousBest == nil || *volume.PreviousBest != 600 {
		t.Errorf("PreviousBest = %v, want 600", volume.PreviousBest)
	}
}

// TestDetectRecordsIgnoresIncompleteSets verifies incomplete sets cannot set
// or break a record.
func TestDetectRecordsIgnoresIncompleteSets(t *testing.T) {
	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600, entry("Squat", completedSet(5, 100))),
		finalizedSession(day(1), 3600, entry("Squat",
			completedSet(5, 100),
			models.SetRecord{IsCompleted: false, ActualReps: 1, ActualWeightKg: ptr(200)},
		)),
	}

	if records := DetectRecords(sessions); len(records) != 0 {
		t.Errorf("got %d records, want 0: %+v", len(records), records)
	}
}

// TestDetectRecordsUnfinalizedExcluded verifies sessions without a completion
// timestamp are skipped entirely.
func TestDetectRecordsUnfinalizedExcluded(t *testing.T) {
	inProgress := finalizedSession(day(1), 3600, entry("Squat", completedSet(5, 200)))
	inProgress.CompletedAt = nil

	sessions := []models.WorkoutSession{
		finalizedSession(day(0), 3600, entry("Squat", completedSet(5, 100))),
		inProgress,
		finalizedSession(day(2), 3600, entry("Squat", completedSet(5, 110))),
	}

	for _, r := range DetectRecords(sessions) {
		if r.Type == models.RecordWeight && r.Value != 110 {
			t.Errorf("weight record Value = %v, want 110", r.Value)
		}
	}
}
