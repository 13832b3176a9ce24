package analytics

import (
	"time"

	"github.com/claude/liftlens/internal/models"
)

// Timeframe selects the bucket width for progress trends.
type Timeframe string

// Supported timeframes.
const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// TrendMetric selects the per-bucket reduction.
type TrendMetric string

// Supported trend metrics. Duration is reported in minutes, volume in kg,
// frequency as a session count, and weight as the mean of positive completed
// set weights within the bucket.
const (
	MetricDuration  TrendMetric = "duration"
	MetricVolume    TrendMetric = "volume"
	MetricFrequency TrendMetric = "frequency"
	MetricWeight    TrendMetric = "weight"
)

// TrendPoint is one bucket's aggregate value. A bucket with no sessions
// yields 0, meaning "no activity", not "no data".
type TrendPoint struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Value       float64   `json:"value"`
}

// bucketCount returns how many periods a timeframe covers.
func bucketCount(tf Timeframe) int {
	if tf == TimeframeYear {
		return 5
	}
	return 12
}

// ProgressTrend partitions the recent past into non-overlapping buckets
// anchored to now (oldest first) and reduces each bucket to a single scalar.
// Each finalized session lands in exactly one bucket by its completion date;
// sessions outside the covered range are dropped.
func ProgressTrend(sessions []models.WorkoutSession, tf Timeframe, metric TrendMetric, now time.Time) []TrendPoint {
	n := bucketCount(tf)
	points := make([]TrendPoint, n)

	anchor := models.DayUTC(now).AddDate(0, 0, 1) // exclusive end of today's bucket
	for i := n - 1; i >= 0; i-- {
		var start time.Time
		switch tf {
		case TimeframeMonth:
			start = anchor.AddDate(0, -1, 0)
		case TimeframeYear:
			start = anchor.AddDate(-1, 0, 0)
		default:
			start = anchor.AddDate(0, 0, -7)
		}
		points[i] = TrendPoint{PeriodStart: start, PeriodEnd: anchor}
		anchor = start
	}

	type bucketAgg struct {
		sum   float64
		count int
	}
	aggs := make([]bucketAgg, n)

	for _, s := range sessions {
		if !s.IsFinalized() {
			continue
		}
		idx := bucketIndex(points, s.CompletionDate())
		if idx < 0 {
			continue
		}
		switch metric {
		case MetricVolume:
			aggs[idx].sum += CalculateSessionMetrics(s).TotalVolumeKg
		case MetricFrequency:
			aggs[idx].sum++
		case MetricWeight:
			for _, entry := range s.Exercises {
				for _, set := range entry.CompletedSets() {
					if w := set.WeightKg(); w > 0 {
						aggs[idx].sum += w
						aggs[idx].count++
					}
				}
			}
		default: // duration, in minutes
			aggs[idx].sum += s.TotalDurationSec / 60
		}
	}

	for i := range points {
		if metric == MetricWeight {
			if aggs[i].count > 0 {
				points[i].Value = aggs[i].sum / float64(aggs[i].count)
			}
			continue
		}
		points[i].Value = aggs[i].sum
	}

	return points
}

// bucketIndex finds the single bucket containing t, or -1. Bucket ranges are
// half-open [start, end) so adjacent buckets can never double-count.
func bucketIndex(points []TrendPoint, t time.Time) int {
	for i, p := range points {
		if !t.Before(p.PeriodStart) && t.Before(p.PeriodEnd) {
			return i
		}
	}
	return -1
}
