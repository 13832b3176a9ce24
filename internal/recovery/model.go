// Package recovery derives a fatigue level and recovery score from recent
// training, maps them to actionable rest and intensity guidance, and keeps a
// rolling snapshot history so trend queries have a basis.
package recovery

import (
	"math"
	"sort"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/models"
)

// Model window and formula constants.
const (
	AnalysisWindowDays = 14
	FatigueWindowDays  = 7
	BonusWindowDays    = 3
	TrendSessionCount  = 3

	ExertionWeight        = 40
	VolumeWeight          = 30
	VolumeNormKg          = 2000
	FrequencyWeight       = 30
	MuscleExertionWeight  = 60
	MuscleFrequencyWeight = 40

	RestDayBonusPerDay   = 10
	CompletionBonusMax   = 10
	HistoryRetentionDays = 30
)

// IntensityTier is the recommended effort for the next workout.
type IntensityTier string

// Intensity tiers.
const (
	IntensityLight    IntensityTier = "light"
	IntensityModerate IntensityTier = "moderate"
	IntensityHigh     IntensityTier = "high"
)

// TrendState classifies how recovery is moving across recent sessions.
type TrendState string

// Recovery trend states.
const (
	TrendImproving TrendState = "improving"
	TrendStable    TrendState = "stable"
	TrendDeclining TrendState = "declining"
)

// Snapshot is one computed recovery state. Snapshots are appended to a
// persisted, timestamped history pruned to the last 30 days.
type Snapshot struct {
	ComputedAt          time.Time      `json:"computed_at"`
	FatigueLevel        int            `json:"fatigue_level"`
	RecoveryScore       int            `json:"recovery_score"`
	MuscleGroupFatigue  map[string]int `json:"muscle_group_fatigue"`
	RecommendedRestDays int            `json:"recommended_rest_days"`
	NextIntensity       IntensityTier  `json:"next_intensity"`
	Trend               TrendState     `json:"trend"`
}

// RecoveryNeeded reports whether the snapshot calls for a dedicated
// recovery workout rather than another training session.
func (s Snapshot) RecoveryNeeded() bool {
	return s.NextIntensity == IntensityLight
}

// sessionIntensity is the per-session input to the fatigue formulas.
type sessionIntensity struct {
	date              time.Time
	volumeKg          float64
	durationMin       float64
	muscleGroups      []string
	completionRate    float64 // completed sets / planned sets * 100
	perceivedExertion float64 // 1-10
}

// Analyze recomputes the recovery state from scratch over the last 14 days
// of finalized sessions. It is pure: persistence is the caller's concern.
func Analyze(sessions []models.WorkoutSession, now time.Time) Snapshot {
	intensities := collectIntensities(sessions, now)

	fatigue := fatigueLevel(intensities, now)
	score := recoveryScore(fatigue, intensities, now)

	return Snapshot{
		ComputedAt:          now,
		FatigueLevel:        fatigue,
		RecoveryScore:       score,
		MuscleGroupFatigue:  muscleGroupFatigue(intensities, now),
		RecommendedRestDays: recommendedRestDays(fatigue),
		NextIntensity:       nextIntensity(fatigue, score),
		Trend:               recoveryTrend(intensities),
	}
}

// collectIntensities derives per-session intensity data for finalized
// sessions within the analysis window, ordered oldest first.
func collectIntensities(sessions []models.WorkoutSession, now time.Time) []sessionIntensity {
	cutoff := now.AddDate(0, 0, -AnalysisWindowDays)
	var out []sessionIntensity

	for _, s := range chronological(sessions) {
		if !s.IsFinalized() || s.CompletionDate().Before(cutoff) || s.CompletionDate().After(now) {
			continue
		}

		var planned, completed int
		groups := make(map[string]bool)
		for _, entry := range s.Exercises {
			for _, g := range entry.MuscleGroups {
				groups[g] = true
			}
			planned += len(entry.Sets)
			completed += len(entry.CompletedSets())
		}

		completionRate := 0.0
		if planned > 0 {
			completionRate = float64(completed) / float64(planned) * 100
		}

		metrics := analytics.CalculateSessionMetrics(s)
		durationMin := s.TotalDurationSec / 60

		out = append(out, sessionIntensity{
			date:              s.CompletionDate(),
			volumeKg:          metrics.TotalVolumeKg,
			durationMin:       durationMin,
			muscleGroups:      keys(groups),
			completionRate:    completionRate,
			perceivedExertion: perceivedExertion(metrics.TotalVolumeKg, durationMin, completionRate),
		})
	}
	return out
}

// perceivedExertion estimates a 1-10 effort rating from volume, duration and
// completion rate, scaled against a 1000 kg hour at full completion.
func perceivedExertion(volumeKg, durationMin, completionRate float64) float64 {
	raw := (volumeKg / 1000) * (durationMin / 60) * (completionRate / 100) * 10
	return clamp(raw, 1, 10)
}

// fatigueLevel weighs average exertion, average volume, and training
// frequency over the most recent 7 days. Always within [0, 100].
func fatigueLevel(intensities []sessionIntensity, now time.Time) int {
	recent := since(intensities, now.AddDate(0, 0, -FatigueWindowDays))
	if len(recent) == 0 {
		return 0
	}

	var exertionSum, volumeSum float64
	for _, si := range recent {
		exertionSum += si.perceivedExertion
		volumeSum += si.volumeKg
	}
	n := float64(len(recent))
	avgExertion := exertionSum / n
	avgVolume := volumeSum / n
	workoutsPerDay := n / FatigueWindowDays

	level := ExertionWeight*(avgExertion/10) +
		math.Min(VolumeWeight, VolumeWeight*avgVolume/VolumeNormKg) +
		math.Min(FrequencyWeight, FrequencyWeight*workoutsPerDay)
	return int(clamp(math.Round(level), 0, 100))
}

// muscleGroupFatigue scores each muscle group touched in the last 7 days
// from average exertion and how often the group was trained.
func muscleGroupFatigue(intensities []sessionIntensity, now time.Time) map[string]int {
	recent := since(intensities, now.AddDate(0, 0, -FatigueWindowDays))
	out := make(map[string]int)
	if len(recent) == 0 {
		return out
	}

	var exertionSum float64
	counts := make(map[string]int)
	for _, si := range recent {
		exertionSum += si.perceivedExertion
		for _, g := range si.muscleGroups {
			counts[g]++
		}
	}
	avgExertion := exertionSum / float64(len(recent))

	for group, count := range counts {
		score := MuscleExertionWeight*avgExertion/10 +
			MuscleFrequencyWeight*float64(count)/FatigueWindowDays
		out[group] = int(math.Min(100, math.Round(score)))
	}
	return out
}

// recoveryScore complements the fatigue level with a rest-day bonus (rewards
// days off in the last 3 days) and a completion bonus from the last 3
// sessions. Always within [0, 100].
func recoveryScore(fatigue int, intensities []sessionIntensity, now time.Time) int {
	sessionsLast3Days := len(since(intensities, now.AddDate(0, 0, -BonusWindowDays)))
	restDayBonus := RestDayBonusPerDay * float64(BonusWindowDays-sessionsLast3Days)

	completionBonus := 0.0
	if last := lastN(intensities, TrendSessionCount); len(last) > 0 {
		var sum float64
		for _, si := range last {
			sum += si.completionRate
		}
		completionBonus = CompletionBonusMax * (sum / float64(len(last))) / 100
	}

	score := float64(100-fatigue) + restDayBonus + completionBonus
	return int(clamp(math.Round(score), 0, 100))
}

// recommendedRestDays is a step function of the fatigue level.
func recommendedRestDays(fatigue int) int {
	switch {
	case fatigue < 30:
		return 0
	case fatigue < 50:
		return 1
	case fatigue < 75:
		return 2
	default:
		return 3
	}
}

func nextIntensity(fatigue, recovery int) IntensityTier {
	switch {
	case fatigue > 70 || recovery < 40:
		return IntensityLight
	case fatigue > 50 || recovery < 70:
		return IntensityModerate
	default:
		return IntensityHigh
	}
}

// recoveryTrend compares mean exertion and completion of the most recent 3
// sessions against the prior 3. Improving means effort dropped while
// completion rose; declining is the reverse. Fewer than 6 sessions is
// stable by definition.
func recoveryTrend(intensities []sessionIntensity) TrendState {
	if len(intensities) < 2*TrendSessionCount {
		return TrendStable
	}

	recent := intensities[len(intensities)-TrendSessionCount:]
	prior := intensities[len(intensities)-2*TrendSessionCount : len(intensities)-TrendSessionCount]

	recentExertion, recentCompletion := meanExertionCompletion(recent)
	priorExertion, priorCompletion := meanExertionCompletion(prior)

	switch {
	case recentExertion < priorExertion && recentCompletion > priorCompletion:
		return TrendImproving
	case recentExertion > priorExertion && recentCompletion < priorCompletion:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanExertionCompletion(intensities []sessionIntensity) (exertion, completion float64) {
	for _, si := range intensities {
		exertion += si.perceivedExertion
		completion += si.completionRate
	}
	n := float64(len(intensities))
	return exertion / n, completion / n
}

func since(intensities []sessionIntensity, cutoff time.Time) []sessionIntensity {
	var out []sessionIntensity
	for _, si := range intensities {
		if !si.date.Before(cutoff) {
			out = append(out, si)
		}
	}
	return out
}

func lastN(intensities []sessionIntensity, n int) []sessionIntensity {
	if len(intensities) <= n {
		return intensities
	}
	return intensities[len(intensities)-n:]
}

func chronological(sessions []models.WorkoutSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionDate().Before(out[j].CompletionDate())
	})
	return out
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
