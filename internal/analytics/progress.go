package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/models"
)

// TrendDirection classifies exercise progress across the two most recent
// comparison windows.
type TrendDirection string

// Trend classifications. Stable is also the answer when there is not enough
// data to classify; insufficient data is not "no progress".
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// ExerciseMetrics aggregates one exercise's history across sessions. A query
// with no matching sessions yields zero values and an empty LastPerformed;
// that is a valid result, not an error.
type ExerciseMetrics struct {
	Exercise      string                  `json:"exercise"`
	TotalSets     int                     `json:"total_sets"`
	TotalReps     int                     `json:"total_reps"`
	TotalVolumeKg float64                 `json:"total_volume_kg"`
	MaxWeightKg   float64                 `json:"max_weight_kg"`
	AvgWeightKg   float64                 `json:"avg_weight_kg"`
	ProgressTrend TrendDirection          `json:"progress_trend"`
	LastPerformed string                  `json:"last_performed,omitempty"`
	Records       []models.PersonalRecord `json:"records,omitempty"`
}

// exerciseSessionStats holds one session's aggregates for a matching exercise.
type exerciseSessionStats struct {
	date      time.Time
	avgWeight float64 // mean of positive set weights, 0 if none
}

// ExerciseProgress aggregates metrics for one exercise name (case-insensitive
// substring match against entry names) across the supplied session history.
// Only finalized sessions and completed sets contribute. Max and average
// weight consider positive weights only; zero or missing weights are excluded
// from the average denominator rather than treated as zero-weight lifts.
func ExerciseProgress(sessions []models.WorkoutSession, query string) ExerciseMetrics {
	return ExerciseProgressWith(sessions, query, DefaultTuning())
}

// ExerciseProgressWith is ExerciseProgress with explicit tuning.
func ExerciseProgressWith(sessions []models.WorkoutSession, query string, tuning Tuning) ExerciseMetrics {
	m := ExerciseMetrics{Exercise: query, ProgressTrend: TrendStable}
	needle := strings.ToLower(query)

	var perSession []exerciseSessionStats
	var weightSum float64
	var weightCount int
	var lastPerformed time.Time

	for _, s := range sorted(sessions) {
		if !s.IsFinalized() {
			continue
		}
		var sessionWeightSum float64
		var sessionWeightCount int
		matched := false

		for _, entry := range s.Exercises {
			if !strings.Contains(strings.ToLower(entry.Name), needle) {
				continue
			}
			matched = true
			for _, set := range entry.CompletedSets() {
				m.TotalSets++
				m.TotalReps += set.ActualReps
				m.TotalVolumeKg += set.WeightKg() * float64(set.ActualReps)
				if w := set.WeightKg(); w > 0 {
					weightSum += w
					weightCount++
					sessionWeightSum += w
					sessionWeightCount++
					if w > m.MaxWeightKg {
						m.MaxWeightKg = w
					}
				}
			}
		}

		if matched {
			stats := exerciseSessionStats{date: s.CompletionDate()}
			if sessionWeightCount > 0 {
				stats.avgWeight = sessionWeightSum / float64(sessionWeightCount)
			}
			perSession = append(perSession, stats)
			if s.CompletionDate().After(lastPerformed) {
				lastPerformed = s.CompletionDate()
			}
		}
	}

	if weightCount > 0 {
		m.AvgWeightKg = weightSum / float64(weightCount)
	}
	if !lastPerformed.IsZero() {
		m.LastPerformed = lastPerformed.Format(time.RFC3339)
	}
	m.ProgressTrend = classifyTrend(perSession, tuning)
	m.Records = recordsForExercise(DetectRecords(sessions), needle)

	return m
}

// classifyTrend compares the mean per-session average weight of the most
// recent window against the window immediately prior. A change of at least
// TrendThreshold of the older average is up or down; anything else, or fewer
// than two matching sessions, is stable.
func classifyTrend(perSession []exerciseSessionStats, tuning Tuning) TrendDirection {
	if len(perSession) < 2 {
		return TrendStable
	}

	window := tuning.TrendWindow
	recentStart := len(perSession) - window
	if recentStart < 0 {
		recentStart = 0
	}
	priorStart := recentStart - window
	if priorStart < 0 {
		priorStart = 0
	}

	recent := windowMean(perSession[recentStart:])
	prior := windowMean(perSession[priorStart:recentStart])
	if prior <= 0 {
		return TrendStable
	}

	change := (recent - prior) / prior
	switch {
	case change >= tuning.TrendThreshold:
		return TrendUp
	case change <= -tuning.TrendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

func windowMean(stats []exerciseSessionStats) float64 {
	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stats {
		sum += s.avgWeight
	}
	return sum / float64(len(stats))
}

func recordsForExercise(records []models.PersonalRecord, needle string) []models.PersonalRecord {
	var out []models.PersonalRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Exercise), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sorted returns a chronologically ordered copy (oldest first) of the
// sessions, keyed by completion date. The caller's slice is never reordered.
func sorted(sessions []models.WorkoutSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionDate().Before(out[j].CompletionDate())
	})
	return out
}
