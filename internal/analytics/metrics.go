package analytics

import (
	"math"

	"github.com/claude/liftlens/internal/models"
)

// SessionMetrics holds the scalar metrics derived from one workout session.
type SessionMetrics struct {
	TotalVolumeKg  float64 `json:"total_volume_kg"`
	TotalReps      int     `json:"total_reps"`
	TotalSets      int     `json:"total_sets"`
	AverageRestSec float64 `json:"average_rest_seconds"`
	CaloriesBurned int     `json:"calories_burned"`
	IntensityScore int     `json:"intensity_score"`
}

// CalculateSessionMetrics computes the metrics for a single session using
// the default tuning constants.
func CalculateSessionMetrics(s models.WorkoutSession) SessionMetrics {
	return CalculateSessionMetricsWith(s, DefaultTuning())
}

// CalculateSessionMetricsWith computes the metrics for a single session.
// Only completed sets contribute; a set with a missing weight or duration
// counts as 0 for that field but still contributes its reps. The function is
// deterministic and never mutates the session.
func CalculateSessionMetricsWith(s models.WorkoutSession, tuning Tuning) SessionMetrics {
	var m SessionMetrics
	var restTotal float64

	for _, entry := range s.Exercises {
		for _, set := range entry.Sets {
			if !set.IsCompleted {
				continue
			}
			m.TotalSets++
			m.TotalReps += set.ActualReps
			m.TotalVolumeKg += set.WeightKg() * float64(set.ActualReps)
			restTotal += set.RestDurationSec
		}
	}

	if m.TotalSets > 0 {
		m.AverageRestSec = restTotal / float64(m.TotalSets)
	}

	durationMin := s.TotalDurationSec / 60
	factor := intensityFactor(m.TotalVolumeKg, durationMin, tuning)
	m.CaloriesBurned = int(math.Round(durationMin * tuning.CaloriesPerMinute * factor))
	m.IntensityScore = intensityScore(s, m, durationMin, tuning)

	return m
}

// intensityFactor normalizes volume-per-minute into a bounded multiplier.
// It is used only to scale the calorie estimate, never surfaced directly.
func intensityFactor(volumeKg, durationMin float64, tuning Tuning) float64 {
	if durationMin <= 0 {
		return tuning.IntensityFactorMin
	}
	factor := volumeKg / durationMin / tuning.VolumePerMinuteDivisor
	return clampFloat(factor, tuning.IntensityFactorMin, tuning.IntensityFactorMax)
}

// intensityScore sums four normalized factors, each worth PointsPerFactor:
// duration (capped at one hour), volume, set count, and work density
// (1 - rest-to-duration ratio, with the rest ratio capped).
func intensityScore(s models.WorkoutSession, m SessionMetrics, durationMin float64, tuning Tuning) int {
	durationFactor := math.Min(durationMin/tuning.DurationCapMinutes, 1)
	volumeFactor := math.Min(m.TotalVolumeKg/tuning.VolumeCapKg, 1)
	setFactor := math.Min(float64(m.TotalSets)/tuning.SetCountCap, 1)

	restRatio := 0.0
	if s.TotalDurationSec > 0 {
		restRatio = math.Min(s.TotalRestSec/s.TotalDurationSec, tuning.RestRatioCap)
	}
	densityFactor := 1 - restRatio

	score := (durationFactor + volumeFactor + setFactor + densityFactor) * tuning.PointsPerFactor
	return int(math.Round(score))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
