// Package mcp exposes the analytics engine to language-model tooling via the
// Model Context Protocol.
package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/recommend"
	"github.com/claude/liftlens/internal/recovery"
	"github.com/claude/liftlens/internal/storage"
)

// RecoveryReport bundles a recovery snapshot with its derived insights.
type RecoveryReport struct {
	Metrics  recovery.Snapshot  `json:"metrics"`
	Insights []recovery.Insight `json:"insights"`
}

// DataSource abstracts the analytics layer for MCP tools. Both Engine
// (local database) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	SessionMetrics(ctx context.Context, sessionID string) (analytics.SessionMetrics, error)
	ExerciseProgress(ctx context.Context, name string) (analytics.ExerciseMetrics, error)
	PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error)
	ProgressTrend(ctx context.Context, tf analytics.Timeframe, metric analytics.TrendMetric) ([]analytics.TrendPoint, error)
	Streaks(ctx context.Context) (analytics.StreakSummary, error)
	Recovery(ctx context.Context) (RecoveryReport, error)
	Recommendations(ctx context.Context, fitnessLevel string) ([]recommend.WorkoutRecommendation, error)
	RecentSessions(ctx context.Context, start, end time.Time) ([]models.WorkoutSession, error)
}

// Engine implements DataSource against the local database.
type Engine struct {
	db       *storage.DB
	recovery *recovery.Service
}

// Compile-time check: *Engine satisfies DataSource.
var _ DataSource = (*Engine)(nil)

// NewEngine creates a local DataSource.
func NewEngine(db *storage.DB, recoverySvc *recovery.Service) *Engine {
	return &Engine{db: db, recovery: recoverySvc}
}

func (e *Engine) SessionMetrics(ctx context.Context, sessionID string) (analytics.SessionMetrics, error) {
	id, err := parseSessionID(sessionID)
	if err != nil {
		return analytics.SessionMetrics{}, err
	}
	session, err := e.db.GetSession(ctx, id)
	if err != nil {
		return analytics.SessionMetrics{}, err
	}
	return analytics.CalculateSessionMetrics(*session), nil
}

func (e *Engine) ExerciseProgress(ctx context.Context, name string) (analytics.ExerciseMetrics, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return analytics.ExerciseMetrics{}, err
	}
	return analytics.ExerciseProgress(sessions, name), nil
}

func (e *Engine) PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DetectRecords(sessions), nil
}

func (e *Engine) ProgressTrend(ctx context.Context, tf analytics.Timeframe, metric analytics.TrendMetric) ([]analytics.TrendPoint, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ProgressTrend(sessions, tf, metric, time.Now()), nil
}

func (e *Engine) Streaks(ctx context.Context) (analytics.StreakSummary, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return analytics.StreakSummary{}, err
	}
	return analytics.Streaks(sessions, time.Now()), nil
}

func (e *Engine) Recovery(ctx context.Context) (RecoveryReport, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return RecoveryReport{}, err
	}
	snapshot := e.recovery.Analyze(ctx, sessions, time.Now())
	return RecoveryReport{
		Metrics:  snapshot,
		Insights: recovery.GenerateInsights(snapshot, analytics.ConsecutiveWorkoutDays(sessions)),
	}, nil
}

func (e *Engine) Recommendations(ctx context.Context, fitnessLevel string) ([]recommend.WorkoutRecommendation, error) {
	sessions, err := e.db.AllSessions(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := e.recovery.Analyze(ctx, sessions, time.Now())
	return recommend.Generate(recommend.Input{
		Sessions:     sessions,
		Recovery:     &snapshot,
		FitnessLevel: fitnessLevel,
		Now:          time.Now(),
	}), nil
}

func (e *Engine) RecentSessions(ctx context.Context, start, end time.Time) ([]models.WorkoutSession, error) {
	return e.db.QuerySessions(ctx, start, end)
}
