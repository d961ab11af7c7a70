// ABOUTME: MCP resource implementations for vital-sign records.
// ABOUTME: Provides vitals://recent, vitals://today, and vitals://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// vitals://recent - last 10 records plus the medicine cabinet
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://recent",
		Name:        "Recent Vital Signs",
		Description: "Last 10 vital-sign records and the medicine cabinet",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// vitals://today - all records logged today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://today",
		Name:        "Today's Vital Signs",
		Description: "All vital-sign records logged today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// vitals://summary - latest value per measurement plus medicines
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://summary",
		Name:        "Vitals Summary Dashboard",
		Description: "Latest value for each measurement plus the medicine schedule",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records := s.store.Records()
	start := 0
	if len(records) > 10 {
		start = len(records) - 10
	}

	payloads := make([]recordPayload, 0, len(records)-start)
	for pos := start; pos < len(records); pos++ {
		payloads = append(payloads, payloadFor(pos, records[pos]))
	}

	medicines := make([]map[string]interface{}, 0, s.cabinet.Len())
	for _, m := range s.cabinet.List() {
		medicines = append(medicines, map[string]interface{}{
			"name":     m.Name,
			"dose":     m.Dose,
			"units":    m.Units,
			"schedule": m.Schedule(),
		})
	}

	result := map[string]interface{}{
		"records":   payloads,
		"medicines": medicines,
	}

	return resourceResult("vitals://recent", result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var today []recordPayload
	for pos, rec := range s.store.Records() {
		if rec.RecordedAt.After(todayStart) || rec.RecordedAt.Equal(todayStart) {
			today = append(today, payloadFor(pos, rec))
		}
	}

	result := map[string]interface{}{
		"date":    todayStart.Format("2006-01-02"),
		"records": today,
		"count":   len(today),
	}

	return resourceResult("vitals://today", result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records := s.store.Records()

	// Walk back from the newest record to the latest reading of each
	// measurement; different measurements may come from different days.
	latest := make(map[string]interface{})
	for pos := len(records) - 1; pos >= 0; pos-- {
		rec := records[pos]
		noteLatest(latest, "systolic", rec, func(r models.Record) interface{} {
			if r.Systolic == nil {
				return nil
			}
			return *r.Systolic
		})
		noteLatest(latest, "diastolic", rec, func(r models.Record) interface{} {
			if r.Diastolic == nil {
				return nil
			}
			return *r.Diastolic
		})
		noteLatest(latest, "pulse", rec, func(r models.Record) interface{} {
			if r.Pulse == nil {
				return nil
			}
			return *r.Pulse
		})
		noteLatest(latest, "glucose", rec, func(r models.Record) interface{} {
			if r.Glucose == nil {
				return nil
			}
			return *r.Glucose
		})
		if len(latest) == 4 {
			break
		}
	}

	medicines := make([]map[string]interface{}, 0, s.cabinet.Len())
	for _, m := range s.cabinet.List() {
		medicines = append(medicines, map[string]interface{}{
			"name":     m.Name,
			"purpose":  m.Purpose,
			"dose":     m.Dose,
			"units":    m.Units,
			"schedule": m.Schedule(),
			"per_day":  m.DailyDoses(),
		})
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"latest":       latest,
		"medicines":    medicines,
		"summary": map[string]int{
			"record_count":   s.store.Len(),
			"medicine_count": s.cabinet.Len(),
		},
	}

	return resourceResult("vitals://summary", result)
}

// noteLatest records the first (newest) non-nil value seen for a measurement.
func noteLatest(latest map[string]interface{}, key string, rec models.Record, value func(models.Record) interface{}) {
	if _, seen := latest[key]; seen {
		return
	}
	v := value(rec)
	if v == nil {
		return
	}
	latest[key] = map[string]interface{}{
		"value":       v,
		"recorded_at": rec.RecordedAt.Format(timeLayout),
	}
}

func resourceResult(uri string, result map[string]interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
