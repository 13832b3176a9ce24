package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 14 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -14)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

func parseSessionID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id %q: %w", s, err)
	}
	return id, nil
}

// --- Tool definitions ---

var toolGetSessionMetrics = mcp.NewTool("get_session_metrics",
	mcp.WithDescription("Compute derived metrics for a single workout session: total volume, reps, sets, average rest, estimated calories, and an intensity score (0-100)."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Workout session UUID")),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("List completed workout sessions in a time range, including exercises and individual sets."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 14 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Progress metrics for one exercise across the whole training history: session count, max/average weight, weight trend (up/down/stable), personal records, and last performed date."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'bench press')")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("All personal record events detected across the training history, in chronological order. Covers weight, reps, volume, and duration records with previous best and improvement."),
)

var toolGetProgressTrends = mcp.NewTool("get_progress_trends",
	mcp.WithDescription("Time-bucketed trend data across recent training periods. Returns one value per period for the chosen metric."),
	mcp.WithString("timeframe", mcp.Description("Bucket size. Defaults to 'week' (last 12 weeks); 'month' covers 12 months, 'year' covers 5 years."), mcp.Enum("week", "month", "year")),
	mcp.WithString("metric", mcp.Description("Trend metric. Defaults to 'duration'."), mcp.Enum("duration", "volume", "frequency", "weight")),
)

var toolGetStreaks = mcp.NewTool("get_streaks",
	mcp.WithDescription("Current and longest streak of consecutive workout days (UTC calendar days, multiple sessions per day count once)."),
)

var toolGetRecovery = mcp.NewTool("get_recovery",
	mcp.WithDescription("Recovery and fatigue analysis: fatigue level, per-muscle-group fatigue, recovery score, recommended rest days, next workout intensity, recovery trend, and derived insights."),
)

var toolGetRecommendations = mcp.NewTool("get_recommendations",
	mcp.WithDescription("Personalized workout recommendations (at most 5) derived from recovery state, neglected muscle groups, plateaued exercises, and exercise variety. Each carries provenance explaining why it was generated."),
	mcp.WithString("fitness_level", mcp.Description("Fitness level used to pick exercises from the catalog. Defaults to 'intermediate'."), mcp.Enum("beginner", "intermediate", "advanced")),
)

// --- Tool handlers ---

func (h *handlers) getSessionMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	metrics, err := h.ds.SessionMetrics(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_session_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(metrics)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.RecentSessions(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	progress, err := h.ds.ExerciseProgress(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.PersonalRecords(ctx)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeframe := analytics.Timeframe(req.GetString("timeframe", string(analytics.TimeframeWeek)))
	metric := analytics.TrendMetric(req.GetString("metric", string(analytics.MetricDuration)))

	points, err := h.ds.ProgressTrend(ctx, timeframe, metric)
	if err != nil {
		h.log.Error("mcp get_progress_trends", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreaks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	streaks, err := h.ds.Streaks(ctx)
	if err != nil {
		h.log.Error("mcp get_streaks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(streaks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecovery(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.ds.Recovery(ctx)
	if err != nil {
		h.log.Error("mcp get_recovery", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := req.GetString("fitness_level", "intermediate")

	recs, err := h.ds.Recommendations(ctx, level)
	if err != nil {
		h.log.Error("mcp get_recommendations", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
