// Package analytics contains the pure computation core: per-session metrics,
// per-exercise progress aggregation, personal record detection, and
// time-bucketed trend and streak generation. Every function operates on
// caller-supplied session lists and never mutates its input.
package analytics

// Tuning holds the empirical constants the calculators use. The defaults are
// carried over verbatim from the production heuristics; they are exposed as
// named, overridable values rather than inline literals.
type Tuning struct {
	// VolumePerMinuteDivisor normalizes volume-per-minute into the
	// intensity factor range.
	VolumePerMinuteDivisor float64
	// IntensityFactorMin and IntensityFactorMax clamp the intensity factor.
	IntensityFactorMin float64
	IntensityFactorMax float64
	// CaloriesPerMinute is the base burn rate before the intensity
	// multiplier. The calorie figure is a heuristic, not a physiological
	// model.
	CaloriesPerMinute float64

	// Intensity score caps: each factor is normalized against its cap and
	// scaled to PointsPerFactor.
	DurationCapMinutes float64
	VolumeCapKg        float64
	SetCountCap        float64
	RestRatioCap       float64
	PointsPerFactor    float64

	// TrendWindow is the number of sessions in each comparison window for
	// progress classification.
	TrendWindow int
	// TrendThreshold is the fraction of the older window's average that a
	// change must reach to count as up or down.
	TrendThreshold float64
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		VolumePerMinuteDivisor: 50,
		IntensityFactorMin:     0.5,
		IntensityFactorMax:     2.0,
		CaloriesPerMinute:      8,
		DurationCapMinutes:     60,
		VolumeCapKg:            10000,
		SetCountCap:            30,
		RestRatioCap:           0.5,
		PointsPerFactor:        25,
		TrendWindow:            3,
		TrendThreshold:         0.05,
	}
}
