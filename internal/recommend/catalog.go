// Package recommend turns the upstream analytics signals (muscle coverage,
// fatigue state, progress plateaus, exercise variety) into ranked workout
// recommendations with explanatory provenance.
package recommend

import "strings"

// Difficulty levels used by the static catalog and by user fitness levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// CatalogExercise is one entry of the static per-muscle-group catalog.
type CatalogExercise struct {
	Name       string
	Difficulty string
	Equipment  string
}

// catalog maps each muscle group to its candidate exercises. The pool is
// intentionally small and static: recommendations draw variations from it
// rather than inventing movements.
var catalog = map[string][]CatalogExercise{
	"chest": {
		{Name: "Push-Up", Difficulty: DifficultyBeginner, Equipment: "bodyweight"},
		{Name: "Dumbbell Bench Press", Difficulty: DifficultyBeginner, Equipment: "dumbbells"},
		{Name: "Barbell Bench Press", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Incline Dumbbell Press", Difficulty: DifficultyIntermediate, Equipment: "dumbbells"},
		{Name: "Weighted Dip", Difficulty: DifficultyAdvanced, Equipment: "dip belt"},
	},
	"back": {
		{Name: "Lat Pulldown", Difficulty: DifficultyBeginner, Equipment: "cable machine"},
		{Name: "Seated Cable Row", Difficulty: DifficultyBeginner, Equipment: "cable machine"},
		{Name: "Barbell Row", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Pull-Up", Difficulty: DifficultyIntermediate, Equipment: "pull-up bar"},
		{Name: "Weighted Pull-Up", Difficulty: DifficultyAdvanced, Equipment: "dip belt"},
	},
	"legs": {
		{Name: "Goblet Squat", Difficulty: DifficultyBeginner, Equipment: "dumbbell"},
		{Name: "Leg Press", Difficulty: DifficultyBeginner, Equipment: "machine"},
		{Name: "Barbell Back Squat", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Romanian Deadlift", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Front Squat", Difficulty: DifficultyAdvanced, Equipment: "barbell"},
	},
	"shoulders": {
		{Name: "Dumbbell Lateral Raise", Difficulty: DifficultyBeginner, Equipment: "dumbbells"},
		{Name: "Seated Dumbbell Press", Difficulty: DifficultyBeginner, Equipment: "dumbbells"},
		{Name: "Overhead Press", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Arnold Press", Difficulty: DifficultyIntermediate, Equipment: "dumbbells"},
		{Name: "Push Press", Difficulty: DifficultyAdvanced, Equipment: "barbell"},
	},
	"arms": {
		{Name: "Dumbbell Curl", Difficulty: DifficultyBeginner, Equipment: "dumbbells"},
		{Name: "Triceps Pushdown", Difficulty: DifficultyBeginner, Equipment: "cable machine"},
		{Name: "Barbell Curl", Difficulty: DifficultyIntermediate, Equipment: "barbell"},
		{Name: "Skull Crusher", Difficulty: DifficultyIntermediate, Equipment: "ez bar"},
		{Name: "Close-Grip Bench Press", Difficulty: DifficultyAdvanced, Equipment: "barbell"},
	},
	"core": {
		{Name: "Plank", Difficulty: DifficultyBeginner, Equipment: "bodyweight"},
		{Name: "Dead Bug", Difficulty: DifficultyBeginner, Equipment: "bodyweight"},
		{Name: "Hanging Knee Raise", Difficulty: DifficultyIntermediate, Equipment: "pull-up bar"},
		{Name: "Ab Wheel Rollout", Difficulty: DifficultyIntermediate, Equipment: "ab wheel"},
		{Name: "Dragon Flag", Difficulty: DifficultyAdvanced, Equipment: "bench"},
	},
}

// MuscleGroups returns every muscle group the catalog covers.
func MuscleGroups() []string {
	groups := make([]string, 0, len(catalog))
	for g := range catalog {
		groups = append(groups, g)
	}
	return groups
}

// CatalogFor returns the catalog exercises for a muscle group filtered to the
// user's fitness level or one level above it.
func CatalogFor(muscleGroup, fitnessLevel string) []CatalogExercise {
	allowed := allowedDifficulties(fitnessLevel)
	var out []CatalogExercise
	for _, ex := range catalog[strings.ToLower(muscleGroup)] {
		if allowed[ex.Difficulty] {
			out = append(out, ex)
		}
	}
	return out
}

func allowedDifficulties(fitnessLevel string) map[string]bool {
	switch fitnessLevel {
	case DifficultyAdvanced:
		return map[string]bool{DifficultyIntermediate: true, DifficultyAdvanced: true}
	case DifficultyIntermediate:
		return map[string]bool{DifficultyBeginner: true, DifficultyIntermediate: true, DifficultyAdvanced: true}
	default:
		return map[string]bool{DifficultyBeginner: true, DifficultyIntermediate: true}
	}
}
