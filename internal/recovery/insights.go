package recovery

import (
	"fmt"
	"sort"
)

// InsightPriority orders insights for display.
type InsightPriority string

// Insight priorities, highest first.
const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// InsightKind classifies the tone of an insight.
type InsightKind string

// Insight kinds.
const (
	InsightWarning    InsightKind = "warning"
	InsightSuggestion InsightKind = "suggestion"
	InsightPositive   InsightKind = "positive"
)

// Insight is one actionable observation derived from a recovery snapshot.
type Insight struct {
	Kind     InsightKind     `json:"kind"`
	Priority InsightPriority `json:"priority"`
	Message  string          `json:"message"`
}

// Insight rule thresholds.
const (
	highFatigueThreshold     = 70
	muscleFatigueThreshold   = 80
	consecutiveDaysThreshold = 5
	sleepFatigueThreshold    = 60
	highRecoveryThreshold    = 80
	lowFatigueThreshold      = 30
)

// GenerateInsights runs the fixed rule set over a snapshot and sorts the
// results by priority (high, medium, low). Insights sharing a priority keep
// their rule-order position; no further sorting is applied.
func GenerateInsights(s Snapshot, consecutiveWorkoutDays int) []Insight {
	var insights []Insight

	if s.FatigueLevel > highFatigueThreshold {
		insights = append(insights, Insight{
			Kind:     InsightWarning,
			Priority: PriorityHigh,
			Message:  fmt.Sprintf("Fatigue level is high (%d/100). Consider taking %d rest day(s) before your next hard session.", s.FatigueLevel, s.RecommendedRestDays),
		})
	}

	for _, group := range sortedGroups(s.MuscleGroupFatigue) {
		if s.MuscleGroupFatigue[group] > muscleFatigueThreshold {
			insights = append(insights, Insight{
				Kind:     InsightWarning,
				Priority: PriorityHigh,
				Message:  fmt.Sprintf("%s shows heavy accumulated fatigue (%d/100). Avoid training it until it recovers.", group, s.MuscleGroupFatigue[group]),
			})
		}
	}

	if consecutiveWorkoutDays >= consecutiveDaysThreshold {
		insights = append(insights, Insight{
			Kind:     InsightWarning,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("You have trained %d days in a row. A rest day helps consolidate your progress.", consecutiveWorkoutDays),
		})
	}

	if s.Trend == TrendDeclining {
		insights = append(insights, Insight{
			Kind:     InsightSuggestion,
			Priority: PriorityMedium,
			Message:  "Your recovery trend is declining: effort is rising while completion drops. Reduce intensity for a few sessions.",
		})
	}

	if s.RecoveryScore > highRecoveryThreshold && s.FatigueLevel < lowFatigueThreshold {
		insights = append(insights, Insight{
			Kind:     InsightPositive,
			Priority: PriorityLow,
			Message:  fmt.Sprintf("You are well recovered (score %d/100). A high-intensity session would land well right now.", s.RecoveryScore),
		})
	}

	if s.FatigueLevel > sleepFatigueThreshold {
		insights = append(insights, Insight{
			Kind:     InsightSuggestion,
			Priority: PriorityLow,
			Message:  "Elevated fatigue responds well to sleep. Aim for 8+ hours tonight.",
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return priorityRank(insights[i].Priority) < priorityRank(insights[j].Priority)
	})
	return insights
}

func priorityRank(p InsightPriority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// sortedGroups keeps muscle-group insight order deterministic across runs.
func sortedGroups(m map[string]int) []string {
	groups := make([]string, 0, len(m))
	for g := range m {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
