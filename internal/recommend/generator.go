package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/recovery"
)

// Generator thresholds and fixed scores.
const (
	MaxRecommendations      = 5
	NeglectThresholdDays    = 10
	PlateauMinSessions      = 6
	VarietyWindowSessions   = 5
	VarietyMinDistinct      = 10
	VarietyMinTotalSessions = 5

	RecoveryConfidence = 90
	NeglectConfidence  = 75
	PlateauConfidence  = 70
	VarietyConfidence  = 60
)

// Priority tiers for recommendations, highest first.
type Priority string

// Recommendation priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Provenance records which analytical signal justified a recommendation.
// It must never be dropped when rendering: it is the explanation trail.
type Provenance struct {
	Source        string  `json:"source"`
	Justification string  `json:"justification"`
	Weight        float64 `json:"weight"`
}

// RecommendedExercise is one concrete exercise inside a recommendation.
type RecommendedExercise struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscle_groups"`
	Sets         int      `json:"sets"`
	RepScheme    string   `json:"rep_scheme"`
	RestSec      int      `json:"rest_seconds"`
	Notes        string   `json:"notes,omitempty"`
	Confidence   int      `json:"confidence"`
}

// WorkoutRecommendation is one ranked suggestion. Recommendations are
// ephemeral: regenerated on each request and never mutated.
type WorkoutRecommendation struct {
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	Confidence        int                   `json:"confidence"`
	Reasoning         []string              `json:"reasoning"`
	TargetDurationMin int                   `json:"target_duration_minutes"`
	Difficulty        string                `json:"difficulty"`
	Type              string                `json:"type"`
	MuscleGroups      []string              `json:"muscle_groups"`
	Exercises         []RecommendedExercise `json:"exercises"`
	Priority          Priority              `json:"priority"`
	BasedOn           []Provenance          `json:"based_on"`
}

// Input carries everything the generator consumes. Recovery may be nil when
// the recovery subsystem failed for this cycle; the recovery-based
// recommendation is then skipped rather than aborting generation.
type Input struct {
	Sessions     []models.WorkoutSession
	Recovery     *recovery.Snapshot
	FitnessLevel string
	Now          time.Time
}

// Generate produces up to MaxRecommendations suggestions, sorted by priority
// (high before medium before low) and by descending confidence within a
// priority.
func Generate(in Input) []WorkoutRecommendation {
	if in.FitnessLevel == "" {
		in.FitnessLevel = DifficultyBeginner
	}

	var recs []WorkoutRecommendation
	if r := recoveryRecommendation(in); r != nil {
		recs = append(recs, *r)
	}
	recs = append(recs, neglectRecommendations(in)...)
	recs = append(recs, plateauRecommendations(in)...)
	if r := varietyRecommendation(in); r != nil {
		recs = append(recs, *r)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := priorityRank(recs[i].Priority), priorityRank(recs[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return recs[i].Confidence > recs[j].Confidence
	})

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// recoveryRecommendation proposes a fixed low-intensity session when the
// fatigue model calls for recovery. Confidence and priority are fixed.
func recoveryRecommendation(in Input) *WorkoutRecommendation {
	if in.Recovery == nil || !in.Recovery.RecoveryNeeded() {
		return nil
	}

	return &WorkoutRecommendation{
		Title:       "Active Recovery Session",
		Description: "Low-intensity movement to speed up recovery without adding training stress.",
		Confidence:  RecoveryConfidence,
		Reasoning: []string{
			fmt.Sprintf("Fatigue level is %d/100 and recovery score is %d/100.", in.Recovery.FatigueLevel, in.Recovery.RecoveryScore),
			fmt.Sprintf("The model recommends %d rest day(s) before the next hard session.", in.Recovery.RecommendedRestDays),
		},
		TargetDurationMin: 30,
		Difficulty:        DifficultyBeginner,
		Type:              "recovery",
		MuscleGroups:      []string{"full body"},
		Exercises: []RecommendedExercise{
			{Name: "Walking", Category: "recovery", MuscleGroups: []string{"legs"}, Sets: 1, RepScheme: "20 min easy pace", RestSec: 0, Confidence: RecoveryConfidence},
			{Name: "Dynamic Stretching", Category: "recovery", MuscleGroups: []string{"full body"}, Sets: 2, RepScheme: "10 movements per side", RestSec: 30, Confidence: RecoveryConfidence},
			{Name: "Foam Rolling", Category: "recovery", MuscleGroups: []string{"full body"}, Sets: 1, RepScheme: "60s per muscle group", RestSec: 0, Notes: "Focus on the most fatigued areas.", Confidence: RecoveryConfidence},
		},
		Priority: PriorityHigh,
		BasedOn: []Provenance{{
			Source:        "recovery_model",
			Justification: "Current fatigue and recovery scores call for a recovery workout.",
			Weight:        0.9,
		}},
	}
}

// neglectRecommendations flags catalog muscle groups with no recent training.
func neglectRecommendations(in Input) []WorkoutRecommendation {
	lastTrained := lastTrainedByGroup(in.Sessions)
	cutoff := in.Now.AddDate(0, 0, -NeglectThresholdDays)

	groups := MuscleGroups()
	sort.Strings(groups)

	var recs []WorkoutRecommendation
	for _, group := range groups {
		last, trained := lastTrained[group]
		if trained && last.After(cutoff) {
			continue
		}

		pool := CatalogFor(group, in.FitnessLevel)
		if len(pool) == 0 {
			continue
		}

		justification := fmt.Sprintf("%s has never been trained in the recorded history.", group)
		if trained {
			days := int(in.Now.Sub(last).Hours() / 24)
			justification = fmt.Sprintf("%s was last trained %d days ago.", group, days)
		}

		exercises := make([]RecommendedExercise, 0, 4)
		for _, ex := range pool {
			if len(exercises) == 4 {
				break
			}
			exercises = append(exercises, RecommendedExercise{
				Name:         ex.Name,
				Category:     "strength",
				MuscleGroups: []string{group},
				Sets:         3,
				RepScheme:    "8-12 reps",
				RestSec:      90,
				Confidence:   NeglectConfidence,
			})
		}

		recs = append(recs, WorkoutRecommendation{
			Title:             fmt.Sprintf("Train Your %s", titleCase(group)),
			Description:       fmt.Sprintf("Balanced coverage session to bring %s back into your rotation.", group),
			Confidence:        NeglectConfidence,
			Reasoning:         []string{justification},
			TargetDurationMin: 45,
			Difficulty:        in.FitnessLevel,
			Type:              "strength",
			MuscleGroups:      []string{group},
			Exercises:         exercises,
			Priority:          PriorityMedium,
			BasedOn: []Provenance{{
				Source:        "muscle_coverage",
				Justification: justification,
				Weight:        0.7,
			}},
		})
	}
	return recs
}

// plateauRecommendations substitutes catalog variations for exercises whose
// average weight shows no meaningful progress across the trend windows.
func plateauRecommendations(in Input) []WorkoutRecommendation {
	var recs []WorkoutRecommendation
	for _, candidate := range plateauCandidates(in.Sessions) {
		group := candidate.muscleGroup
		pool := CatalogFor(group, in.FitnessLevel)

		var variations []RecommendedExercise
		schemes := []struct {
			scheme string
			sets   int
			rest   int
			note   string
		}{
			{"5 reps heavy", 5, 180, "Heavier load, lower reps."},
			{"8 reps moderate", 4, 120, ""},
			{"12-15 reps high volume", 3, 60, "Lighter load, more volume."},
		}
		i := 0
		for _, ex := range pool {
			if strings.EqualFold(ex.Name, candidate.exercise) {
				continue
			}
			if i == len(schemes) {
				break
			}
			variations = append(variations, RecommendedExercise{
				Name:         ex.Name,
				Category:     "strength",
				MuscleGroups: []string{group},
				Sets:         schemes[i].sets,
				RepScheme:    schemes[i].scheme,
				RestSec:      schemes[i].rest,
				Notes:        schemes[i].note,
				Confidence:   PlateauConfidence,
			})
			i++
		}
		if len(variations) == 0 {
			continue
		}

		justification := fmt.Sprintf("%s has shown no meaningful weight progress across its recent sessions.", candidate.exercise)
		recs = append(recs, WorkoutRecommendation{
			Title:             fmt.Sprintf("Break the %s Plateau", titleCase(candidate.exercise)),
			Description:       "Swap in variations with different rep schemes to force a new stimulus.",
			Confidence:        PlateauConfidence,
			Reasoning:         []string{justification, "Varied rep schemes expose the muscle to new loading patterns."},
			TargetDurationMin: 50,
			Difficulty:        in.FitnessLevel,
			Type:              "strength",
			MuscleGroups:      []string{group},
			Exercises:         variations,
			Priority:          PriorityMedium,
			BasedOn: []Provenance{{
				Source:        "plateau_detection",
				Justification: justification,
				Weight:        0.75,
			}},
		})
	}
	return recs
}

type plateauCandidate struct {
	exercise    string
	muscleGroup string
}

// plateauCandidates finds exercises that appear in enough sessions for the
// trend comparison yet do not trend up. The muscle group is inferred from the
// most common tag attached to the exercise in history.
func plateauCandidates(sessions []models.WorkoutSession) []plateauCandidate {
	appearances := make(map[string]int)
	groupVotes := make(map[string]map[string]int)

	for _, s := range sessions {
		if !s.IsFinalized() {
			continue
		}
		seenThisSession := make(map[string]bool)
		for _, entry := range s.Exercises {
			name := strings.ToLower(entry.Name)
			if !seenThisSession[name] {
				seenThisSession[name] = true
				appearances[name]++
			}
			if groupVotes[name] == nil {
				groupVotes[name] = make(map[string]int)
			}
			for _, g := range entry.MuscleGroups {
				groupVotes[name][strings.ToLower(g)]++
			}
		}
	}

	names := make([]string, 0, len(appearances))
	for name := range appearances {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []plateauCandidate
	for _, name := range names {
		if appearances[name] < PlateauMinSessions {
			continue
		}
		metrics := analytics.ExerciseProgress(sessions, name)
		if metrics.ProgressTrend == analytics.TrendUp {
			continue
		}
		group := topVote(groupVotes[name])
		if group == "" {
			continue
		}
		out = append(out, plateauCandidate{exercise: name, muscleGroup: group})
	}
	return out
}

// varietyRecommendation fires when recent training keeps cycling the same
// few exercises despite an established history.
func varietyRecommendation(in Input) *WorkoutRecommendation {
	finalized := finalizedByDate(in.Sessions)
	if len(finalized) <= VarietyMinTotalSessions {
		return nil
	}

	recent := finalized
	if len(recent) > VarietyWindowSessions {
		recent = recent[len(recent)-VarietyWindowSessions:]
	}

	recentNames := make(map[string]bool)
	for _, s := range recent {
		for _, entry := range s.Exercises {
			recentNames[strings.ToLower(entry.Name)] = true
		}
	}
	if len(recentNames) >= VarietyMinDistinct {
		return nil
	}

	groups := MuscleGroups()
	sort.Strings(groups)

	var fresh []RecommendedExercise
	for _, group := range groups {
		for _, ex := range CatalogFor(group, in.FitnessLevel) {
			if recentNames[strings.ToLower(ex.Name)] {
				continue
			}
			fresh = append(fresh, RecommendedExercise{
				Name:         ex.Name,
				Category:     "strength",
				MuscleGroups: []string{group},
				Sets:         3,
				RepScheme:    "8-12 reps",
				RestSec:      90,
				Confidence:   VarietyConfidence,
			})
			break // one new exercise per muscle group keeps the session balanced
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	justification := fmt.Sprintf("Only %d distinct exercises appear in your last %d sessions.", len(recentNames), len(recent))
	return &WorkoutRecommendation{
		Title:             "Mix Up Your Routine",
		Description:       "Fresh movements you have not done recently, one per muscle group.",
		Confidence:        VarietyConfidence,
		Reasoning:         []string{justification, "Rotating exercises spreads load across movement patterns."},
		TargetDurationMin: 45,
		Difficulty:        in.FitnessLevel,
		Type:              "strength",
		MuscleGroups:      groups,
		Exercises:         fresh,
		Priority:          PriorityLow,
		BasedOn: []Provenance{{
			Source:        "variety_analysis",
			Justification: justification,
			Weight:        0.5,
		}},
	}
}

// lastTrainedByGroup maps each muscle group to its most recent training date.
func lastTrainedByGroup(sessions []models.WorkoutSession) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, s := range sessions {
		if !s.IsFinalized() {
			continue
		}
		for _, entry := range s.Exercises {
			if len(entry.CompletedSets()) == 0 {
				continue
			}
			for _, g := range entry.MuscleGroups {
				g = strings.ToLower(g)
				if s.CompletionDate().After(out[g]) {
					out[g] = s.CompletionDate()
				}
			}
		}
	}
	return out
}

func finalizedByDate(sessions []models.WorkoutSession) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, s := range sessions {
		if s.IsFinalized() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionDate().Before(out[j].CompletionDate())
	})
	return out
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func topVote(votes map[string]int) string {
	best, bestCount := "", 0
	keys := make([]string, 0, len(votes))
	for k := range votes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if votes[k] > bestCount {
			best, bestCount = k, votes[k]
		}
	}
	return best
}
