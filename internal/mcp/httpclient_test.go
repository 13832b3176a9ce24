package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlens/internal/recovery"
)

// newTestServer starts an httptest server routing the given paths and returns
// a client pointed at it.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *HTTPClient {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL)
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// TestHTTPClientExerciseProgress verifies the query parameter is forwarded
// and the response decodes into the analytics shape.
func TestHTTPClientExerciseProgress(t *testing.T) {
	client := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises/progress": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("name"); got != "bench press" {
				t.Errorf("name param = %q, want %q", got, "bench press")
			}
			writeTestJSON(t, w, map[string]any{
				"exercise":      "bench press",
				"total_sets":    4,
				"max_weight_kg": 80.0,
			})
		},
	})

	progress, err := client.ExerciseProgress(context.Background(), "bench press")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalSets != 4 {
		t.Errorf("TotalSets = %d, want 4", progress.TotalSets)
	}
	if progress.MaxWeightKg != 80 {
		t.Errorf("MaxWeightKg = %v, want 80", progress.MaxWeightKg)
	}
}

// TestHTTPClientRecovery verifies the combined metrics-plus-insights payload
// decodes.
func TestHTTPClientRecovery(t *testing.T) {
	client := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/recovery": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, RecoveryReport{
				Metrics: recovery.Snapshot{FatigueLevel: 72, RecoveryScore: 35},
				Insights: []recovery.Insight{
					{Kind: recovery.InsightWarning, Priority: recovery.PriorityHigh, Message: "fatigue is high"},
				},
			})
		},
	})

	report, err := client.Recovery(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Metrics.FatigueLevel != 72 {
		t.Errorf("FatigueLevel = %d, want 72", report.Metrics.FatigueLevel)
	}
	if len(report.Insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(report.Insights))
	}
}

// TestHTTPClientRecentSessions verifies RFC3339 window parameters are sent.
func TestHTTPClientRecentSessions(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	client := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got != start.Format(time.RFC3339) {
				t.Errorf("start param = %q", got)
			}
			if got := r.URL.Query().Get("end"); got != end.Format(time.RFC3339) {
				t.Errorf("end param = %q", got)
			}
			writeTestJSON(t, w, []any{})
		},
	})

	sessions, err := client.RecentSessions(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want 0", len(sessions))
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors with
// the path and status.
func TestHTTPClientErrorStatus(t *testing.T) {
	client := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/records": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})

	if _, err := client.PersonalRecords(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}
