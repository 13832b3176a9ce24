package analytics

import (
	"sort"
	"strings"

	"github.com/claude/liftlens/internal/models"
)

// sessionBests holds the tracked values one session produced for one exercise.
type sessionBests struct {
	maxWeight   float64
	totalReps   int
	maxReps     int
	maxDuration float64
}

// volume returns the simplified single-session volume used for volume
// records: max weight in the session times total reps in the session, not
// the set-by-set sum.
func (b sessionBests) volume() float64 {
	return b.maxWeight * float64(b.totalReps)
}

// DetectRecords scans the full session history in chronological order and
// emits a PersonalRecord event whenever a tracked value for an exercise
// strictly exceeds the best value seen so far. The first session for an
// exercise seeds the running bests without emitting, and ties never trigger
// a record.
//
// The detector is a stateless pure function over the complete ordered
// history: replaying the same history produces the same event list, so
// callers must always pass the full history rather than incremental deltas.
func DetectRecords(sessions []models.WorkoutSession) []models.PersonalRecord {
	type bests struct {
		weight   float64
		reps     int
		volume   float64
		duration float64
	}
	running := make(map[string]*bests)
	var records []models.PersonalRecord

	emit := func(exercise string, t models.RecordType, value, prev float64, s models.WorkoutSession) {
		improvement := value - prev
		records = append(records, models.PersonalRecord{
			Exercise:     exercise,
			Type:         t,
			Value:        value,
			Date:         s.CompletionDate(),
			PreviousBest: &prev,
			Improvement:  &improvement,
		})
	}

	for _, s := range sorted(sessions) {
		if !s.IsFinalized() {
			continue
		}
		perExercise := collectSessionBests(s)
		for _, name := range sortedKeys(perExercise) {
			sb := perExercise[name]
			b, seen := running[name]
			if !seen {
				// First appearance seeds the baselines; a baseline is
				// not itself a record event.
				running[name] = &bests{
					weight:   sb.maxWeight,
					reps:     sb.maxReps,
					volume:   sb.volume(),
					duration: sb.maxDuration,
				}
				continue
			}

			if sb.maxWeight > b.weight {
				emit(name, models.RecordWeight, sb.maxWeight, b.weight, s)
				b.weight = sb.maxWeight
			}
			if sb.maxReps > b.reps {
				emit(name, models.RecordReps, float64(sb.maxReps), float64(b.reps), s)
				b.reps = sb.maxReps
			}
			if v := sb.volume(); v > b.volume {
				emit(name, models.RecordVolume, v, b.volume, s)
				b.volume = v
			}
			if sb.maxDuration > b.duration {
				emit(name, models.RecordDuration, sb.maxDuration, b.duration, s)
				b.duration = sb.maxDuration
			}
		}
	}

	return records
}

// collectSessionBests reduces a session to per-exercise tracked values over
// completed sets only. Exercise names are keyed lower-cased so the running
// bests match case-insensitively across sessions.
func collectSessionBests(s models.WorkoutSession) map[string]sessionBests {
	out := make(map[string]sessionBests)
	for _, entry := range s.Exercises {
		key := strings.ToLower(entry.Name)
		sb := out[key]
		for _, set := range entry.CompletedSets() {
			sb.totalReps += set.ActualReps
			if w := set.WeightKg(); w > sb.maxWeight {
				sb.maxWeight = w
			}
			if set.ActualReps > sb.maxReps {
				sb.maxReps = set.ActualReps
			}
			if d := set.DurationSec(); d > sb.maxDuration {
				sb.maxDuration = d
			}
		}
		out[key] = sb
	}
	return out
}

func sortedKeys(m map[string]sessionBests) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
