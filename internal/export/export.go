// Package export serializes session data for offline analysis or backup.
// It is a pure formatting utility: one row per completed set, no analytics.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/claude/liftlens/internal/models"
)

// SetRow is one exported row: a single completed set with its context.
type SetRow struct {
	Date            string  `json:"date"`
	WorkoutName     string  `json:"workout_name"`
	DurationMinutes float64 `json:"duration_minutes"`
	Exercise        string  `json:"exercise"`
	SetNumber       int     `json:"set_number"`
	Reps            int     `json:"reps"`
	WeightKg        float64 `json:"weight_kg"`
	VolumeKg        float64 `json:"volume_kg"`
	RestSeconds     float64 `json:"rest_seconds"`
}

// Rows flattens the finalized sessions into export rows, preserving session,
// exercise, and set order.
func Rows(sessions []models.WorkoutSession) []SetRow {
	var rows []SetRow
	for _, s := range sessions {
		if !s.IsFinalized() {
			continue
		}
		for _, entry := range s.Exercises {
			setNumber := 0
			for _, set := range entry.Sets {
				if !set.IsCompleted {
					continue
				}
				setNumber++
				weight := set.WeightKg()
				rows = append(rows, SetRow{
					Date:            s.CompletionDate().UTC().Format("2006-01-02"),
					WorkoutName:     s.Name,
					DurationMinutes: s.TotalDurationSec / 60,
					Exercise:        entry.Name,
					SetNumber:       setNumber,
					Reps:            set.ActualReps,
					WeightKg:        weight,
					VolumeKg:        weight * float64(set.ActualReps),
					RestSeconds:     set.RestDurationSec,
				})
			}
		}
	}
	return rows
}

// WriteCSV writes the export rows as CSV with a header line.
func WriteCSV(w io.Writer, sessions []models.WorkoutSession) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "workout_name", "duration_minutes", "exercise", "set_number", "reps", "weight_kg", "volume_kg", "rest_seconds"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range Rows(sessions) {
		record := []string{
			row.Date,
			row.WorkoutName,
			formatFloat(row.DurationMinutes),
			row.Exercise,
			strconv.Itoa(row.SetNumber),
			strconv.Itoa(row.Reps),
			formatFloat(row.WeightKg),
			formatFloat(row.VolumeKg),
			formatFloat(row.RestSeconds),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the export rows as a JSON array.
func WriteJSON(w io.Writer, sessions []models.WorkoutSession) error {
	rows := Rows(sessions)
	if rows == nil {
		rows = []SetRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
