package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftlens/internal/analytics"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/recommend"
)

// HTTPClient implements DataSource by calling the LiftLens REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) SessionMetrics(ctx context.Context, sessionID string) (analytics.SessionMetrics, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+url.PathEscape(sessionID)+"/metrics", nil)
	if err != nil {
		return analytics.SessionMetrics{}, err
	}

	var metrics analytics.SessionMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return analytics.SessionMetrics{}, fmt.Errorf("httpclient: decode session metrics: %w", err)
	}
	return metrics, nil
}

func (c *HTTPClient) ExerciseProgress(ctx context.Context, name string) (analytics.ExerciseMetrics, error) {
	params := url.Values{}
	params.Set("name", name)

	body, err := c.get(ctx, "/api/v1/exercises/progress", params)
	if err != nil {
		return analytics.ExerciseMetrics{}, err
	}

	var progress analytics.ExerciseMetrics
	if err := json.Unmarshal(body, &progress); err != nil {
		return analytics.ExerciseMetrics{}, fmt.Errorf("httpclient: decode exercise progress: %w", err)
	}
	return progress, nil
}

func (c *HTTPClient) PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error) {
	body, err := c.get(ctx, "/api/v1/records", nil)
	if err != nil {
		return nil, err
	}

	var records []models.PersonalRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode records: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) ProgressTrend(ctx context.Context, tf analytics.Timeframe, metric analytics.TrendMetric) ([]analytics.TrendPoint, error) {
	params := url.Values{}
	params.Set("timeframe", string(tf))
	params.Set("metric", string(metric))

	body, err := c.get(ctx, "/api/v1/trends", params)
	if err != nil {
		return nil, err
	}

	var points []analytics.TrendPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode trends: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) Streaks(ctx context.Context) (analytics.StreakSummary, error) {
	body, err := c.get(ctx, "/api/v1/streaks", nil)
	if err != nil {
		return analytics.StreakSummary{}, err
	}

	var streaks analytics.StreakSummary
	if err := json.Unmarshal(body, &streaks); err != nil {
		return analytics.StreakSummary{}, fmt.Errorf("httpclient: decode streaks: %w", err)
	}
	return streaks, nil
}

func (c *HTTPClient) Recovery(ctx context.Context) (RecoveryReport, error) {
	body, err := c.get(ctx, "/api/v1/recovery", nil)
	if err != nil {
		return RecoveryReport{}, err
	}

	var report RecoveryReport
	if err := json.Unmarshal(body, &report); err != nil {
		return RecoveryReport{}, fmt.Errorf("httpclient: decode recovery: %w", err)
	}
	return report, nil
}

func (c *HTTPClient) Recommendations(ctx context.Context, fitnessLevel string) ([]recommend.WorkoutRecommendation, error) {
	params := url.Values{}
	if fitnessLevel != "" {
		params.Set("level", fitnessLevel)
	}

	body, err := c.get(ctx, "/api/v1/recommendations", params)
	if err != nil {
		return nil, err
	}

	var recs []recommend.WorkoutRecommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("httpclient: decode recommendations: %w", err)
	}
	return recs, nil
}

func (c *HTTPClient) RecentSessions(ctx context.Context, start, end time.Time) ([]models.WorkoutSession, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}
