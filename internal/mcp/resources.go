package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) trainingSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	streaks, err := h.ds.Streaks(ctx)
	if err != nil {
		return nil, err
	}

	report, err := h.ds.Recovery(ctx)
	if err != nil {
		h.log.Warn("training_summary: recovery failed", "error", err)
	}

	records, err := h.ds.PersonalRecords(ctx)
	if err != nil {
		h.log.Warn("training_summary: records failed", "error", err)
	}

	summary := map[string]any{
		"date":             time.Now().UTC().Format("2006-01-02"),
		"streaks":          streaks,
		"recovery":         report,
		"personal_records": len(records),
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	sessions, err := h.ds.RecentSessions(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
