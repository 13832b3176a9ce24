package analytics

import (
	"sort"
	"time"

	"github.com/claude/liftlens/internal/models"
)

// StreakSummary holds the consecutive-day workout streaks.
type StreakSummary struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// Streaks computes the current and longest consecutive-day streaks over the
// finalized sessions. Days are UTC calendar days; multiple sessions on one
// day count once. The current streak accepts either today or yesterday as
// its most recent anchor, so a streak is still "current" the morning after.
func Streaks(sessions []models.WorkoutSession, now time.Time) StreakSummary {
	days := uniqueWorkoutDays(sessions)
	if len(days) == 0 {
		return StreakSummary{}
	}

	return StreakSummary{
		CurrentStreak: currentStreak(days, models.DayUTC(now)),
		LongestStreak: longestStreak(days),
	}
}

// uniqueWorkoutDays returns the distinct UTC workout days, ascending.
func uniqueWorkoutDays(sessions []models.WorkoutSession) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, s := range sessions {
		if !s.IsFinalized() {
			continue
		}
		day := models.DayUTC(s.CompletionDate())
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// currentStreak walks backward from today, counting days while each prior
// day is exactly one day earlier than the last counted day.
func currentStreak(days []time.Time, today time.Time) int {
	daySet := make(map[time.Time]bool, len(days))
	for _, d := range days {
		daySet[d] = true
	}

	anchor := today
	if !daySet[anchor] {
		anchor = today.AddDate(0, 0, -1)
		if !daySet[anchor] {
			return 0
		}
	}

	streak := 0
	for daySet[anchor] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak scans the sorted unique days once, extending the running
// count on one-day gaps and resetting on anything larger.
func longestStreak(days []time.Time) int {
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// ConsecutiveWorkoutDays returns the length of the consecutive-day run
// ending at the most recent workout day. The recovery insight rules use it
// to flag long unbroken stretches of training.
func ConsecutiveWorkoutDays(sessions []models.WorkoutSession) int {
	days := uniqueWorkoutDays(sessions)
	if len(days) == 0 {
		return 0
	}
	run := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i].Sub(days[i-1]) != 24*time.Hour {
			break
		}
		run++
	}
	return run
}
