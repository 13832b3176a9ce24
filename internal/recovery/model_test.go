package recovery

import (
	"testing"
	"time"

	"github.com/claude/liftlens/internal/models"
	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func trainingSession(completedAt time.Time, volumeWeightKg float64, reps int, groups ...string) models.WorkoutSession {
	if len(groups) == 0 {
		groups = []string{"chest"}
	}
	return models.WorkoutSession{
		ID:          uuid.New(),
		Name:        "Training",
		StartedAt:   completedAt.Add(-time.Hour),
		CompletedAt: &completedAt,
		Exercises: []models.ExerciseEntry{
			{
				Name:         "Bench Press",
				MuscleGroups: groups,
				Sets: []models.SetRecord{
					{IsCompleted: true, ActualReps: reps, ActualWeightKg: ptr(volumeWeightKg)},
				},
			},
		},
		TotalDurationSec: 3600,
	}
}

func testNow() time.Time {
	return time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
}

// TestAnalyzeEmptyHistory verifies a fresh athlete: no fatigue, full recovery
// headroom, no rest needed, high intensity allowed.
func TestAnalyzeEmptyHistory(t *testing.T) {
	s := Analyze(nil, testNow())

	if s.FatigueLevel != 0 {
		t.Errorf("FatigueLevel = %d, want 0", s.FatigueLevel)
	}
	if s.RecoveryScore != 100 {
		t.Errorf("RecoveryScore = %d, want 100", s.RecoveryScore)
	}
	if s.RecommendedRestDays != 0 {
		t.Errorf("RecommendedRestDays = %d, want 0", s.RecommendedRestDays)
	}
	if s.NextIntensity != IntensityHigh {
		t.Errorf("NextIntensity = %q, want high", s.NextIntensity)
	}
	if s.RecoveryNeeded() {
		t.Error("RecoveryNeeded() = true, want false")
	}
}

// TestAnalyzeExtremeLoadStaysClamped verifies all outputs stay within their
// documented ranges under absurd input: twenty huge sessions in seven days.
func TestAnalyzeExtremeLoadStaysClamped(t *testing.T) {
	now := testNow()
	var sessions []models.WorkoutSession
	for i := 0; i < 20; i++ {
		completedAt := now.Add(-time.Duration(i*8) * time.Hour)
		sessions = append(sessions, trainingSession(completedAt, 1000, 1000, "chest", "back", "legs"))
	}

	s := Analyze(sessions, now)

	if s.FatigueLevel < 0 || s.FatigueLevel > 100 {
		t.Errorf("FatigueLevel = %d, want within [0, 100]", s.FatigueLevel)
	}
	if s.RecoveryScore < 0 || s.RecoveryScore > 100 {
		t.Errorf("RecoveryScore = %d, want within [0, 100]", s.RecoveryScore)
	}
	for group, fatigue := range s.MuscleGroupFatigue {
		if fatigue < 0 || fatigue > 100 {
			t.Errorf("MuscleGroupFatigue[%s] = %d, want within [0, 100]", group, fatigue)
		}
	}
	if s.FatigueLevel <= 70 {
		t.Errorf("FatigueLevel = %d, want > 70 for this load", s.FatigueLevel)
	}
	if s.NextIntensity != IntensityLight {
		t.Errorf("NextIntensity = %q, want light", s.NextIntensity)
	}
	if s.RecommendedRestDays != 3 {
		t.Errorf("RecommendedRestDays = %d, want 3", s.RecommendedRestDays)
	}
	if !s.RecoveryNeeded() {
		t.Error("RecoveryNeeded() = false, want true")
	}
}

// TestRecommendedRestDaysSteps verifies the fatigue-to-rest step function.
func TestRecommendedRestDaysSteps(t *testing.T) {
	tests := []struct {
		fatigue int
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{49, 1},
		{50, 2},
		{74, 2},
		{75, 3},
		{100, 3},
	}

	for _, tt := range tests {
		if got := recommendedRestDays(tt.fatigue); got != tt.want {
			t.Errorf("recommendedRestDays(%d) = %d, want %d", tt.fatigue, got, tt.want)
		}
	}
}

// TestNextIntensityTiers verifies the fatigue/recovery tier boundaries.
func TestNextIntensityTiers(t *testing.T) {
	tests := []struct {
		fatigue  int
		recovery int
		want     IntensityTier
	}{
		{80, 90, IntensityLight},
		{10, 30, IntensityLight},
		{60, 90, IntensityModerate},
		{10, 60, IntensityModerate},
		{10, 90, IntensityHigh},
	}

	for _, tt := range tests {
		if got := nextIntensity(tt.fatigue, tt.recovery); got != tt.want {
			t.Errorf("nextIntensity(%d, %d) = %q, want %q", tt.fatigue, tt.recovery, got, tt.want)
		}
	}
}

// TestAnalyzeWindowExcludesOldSessions verifies sessions older than 14 days
// do not influence the snapshot.
func TestAnalyzeWindowExcludesOldSessions(t *testing.T) {
	now := testNow()
	old := []models.WorkoutSession{
		trainingSession(now.AddDate(0, 0, -20), 500, 50),
		trainingSession(now.AddDate(0, 0, -30), 500, 50),
	}

	got := Analyze(old, now)
	want := Analyze(nil, now)
	got.ComputedAt = want.ComputedAt
	if got.FatigueLevel != want.FatigueLevel || got.RecoveryScore != want.RecoveryScore {
		t.Errorf("old sessions influenced the snapshot: got %+v, want %+v", got, want)
	}
}

// TestAnalyzeMuscleGroupCoverage verifies only groups trained in the last
// seven days appear, and harder-trained groups score at least as high.
func TestAnalyzeMuscleGroupCoverage(t *testing.T) {
	now := testNow()
	sessions := []models.WorkoutSession{
		trainingSession(now.AddDate(0, 0, -1), 100, 40, "chest"),
		trainingSession(now.AddDate(0, 0, -2), 100, 40, "chest"),
		trainingSession(now.AddDate(0, 0, -3), 100, 40, "legs"),
		trainingSession(now.AddDate(0, 0, -10), 100, 40, "back"),
	}

	s := Analyze(sessions, now)

	if _, ok := s.MuscleGroupFatigue["back"]; ok {
		t.Error("back trained 10 days ago must not appear in 7-day muscle fatigue")
	}
	if s.MuscleGroupFatigue["chest"] < s.MuscleGroupFatigue["legs"] {
		t.Errorf("chest (trained twice) = %d scored below legs (trained once) = %d",
			s.MuscleGroupFatigue["chest"], s.MuscleGroupFatigue["legs"])
	}
}

// TestRecoveryTrendNeedsSixSessions verifies fewer than six sessions always
// classify stable.
func TestRecoveryTrendNeedsSixSessions(t *testing.T) {
	now := testNow()
	var sessions []models.WorkoutSession
	for i := 0; i < 5; i++ {
		sessions = append(sessions, trainingSession(now.AddDate(0, 0, -i), 500, 50))
	}

	if s := Analyze(sessions, now); s.Trend != TrendStable {
		t.Errorf("Trend = %q, want stable with five sessions", s.Trend)
	}
}
