package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/export"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/recommend"
	"github.com/claude/liftlens/internal/recovery"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleIngestSession(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := session.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	inserted, err := s.db.InsertSession(r.Context(), session)
	if err != nil {
		s.log.Error("session insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       session.ID,
		"inserted": inserted,
	})
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	session, err := s.db.GetSession(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	session, err := s.db.GetSession(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, analytics.CalculateSessionMetrics(*session))
}

func (s *Server) handleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}

	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.ExerciseProgress(sessions, name))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	records := analytics.DetectRecords(sessions)
	if records == nil {
		records = []models.PersonalRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	timeframe := analytics.Timeframe(r.URL.Query().Get("timeframe"))
	switch timeframe {
	case analytics.TimeframeWeek, analytics.TimeframeMonth, analytics.TimeframeYear:
	case "":
		timeframe = analytics.TimeframeWeek
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "timeframe must be week, month, or year"})
		return
	}

	metric := analytics.TrendMetric(r.URL.Query().Get("metric"))
	switch metric {
	case analytics.MetricDuration, analytics.MetricVolume, analytics.MetricFrequency, analytics.MetricWeight:
	case "":
		metric = analytics.MetricDuration
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metric must be duration, volume, frequency, or weight"})
		return
	}

	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.ProgressTrend(sessions, timeframe, metric, time.Now()))
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.Streaks(sessions, time.Now()))
}

func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snapshot := s.recovery.Analyze(r.Context(), sessions, time.Now())
	insights := recovery.GenerateInsights(snapshot, analytics.ConsecutiveWorkoutDays(sessions))
	if insights == nil {
		insights = []recovery.Insight{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metrics":  snapshot,
		"insights": insights,
	})
}

func (s *Server) handleRecoveryHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.recovery.History(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if history == nil {
		history = []recovery.Snapshot{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleClearRecoveryHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.recovery.Clear(r.Context()); err != nil {
		s.log.Error("recovery history clear failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.AllSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snapshot := s.recovery.Analyze(r.Context(), sessions, time.Now())
	recs := recommend.Generate(recommend.Input{
		Sessions:     sessions,
		Recovery:     &snapshot,
		FitnessLevel: r.URL.Query().Get("level"),
		Now:          time.Now(),
	})
	if recs == nil {
		recs = []recommend.WorkoutRecommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	switch r.URL.Query().Get("format") {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="liftlens-export.json"`)
		if err := export.WriteJSON(w, sessions); err != nil {
			s.log.Error("json export failed", "error", err)
		}
	case "csv", "":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="liftlens-export.csv"`)
		if err := export.WriteCSV(w, sessions); err != nil {
			s.log.Error("csv export failed", "error", err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be csv or json"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads optional start/end query parameters (RFC3339 or
// YYYY-MM-DD). With no start, the range defaults to the full history.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr != "" {
		start, err = models.ParseSessionTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now().AddDate(0, 0, 1)
	} else {
		end, err = models.ParseSessionTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len("2006-01-02") {
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
