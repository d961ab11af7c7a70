// ABOUTME: MCP tool implementations for vital-sign records and medicines.
// ABOUTME: Tools mutate the in-memory session; save_records persists it.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const timeLayout = "2006-01-02 15:04"

func (s *Server) registerTools() {
	// add_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Record blood pressure, pulse, and/or glucose at a timestamp",
	}, s.handleAddRecord)

	// edit_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "edit_record",
		Description: "Edit the record at an exact timestamp: set, clear, or re-date measurements",
	}, s.handleEditRecord)

	// remove_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_record",
		Description: "Remove the record at an exact timestamp",
	}, s.handleRemoveRecord)

	// list_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List records: everything, one day/month, or the last N before a date",
	}, s.handleListRecords)

	// search_date
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_date",
		Description: "Find a record by date, or by exact timestamp with exact=true",
	}, s.handleSearchDate)

	// latest_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "latest_record",
		Description: "Get the most recent record",
	}, s.handleLatestRecord)

	// undo_all
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "undo_all",
		Description: "Discard every change made this session, restoring the state loaded at startup",
	}, s.handleUndoAll)

	// save_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_records",
		Description: "Persist the session's records and medicines to disk",
	}, s.handleSaveRecords)

	// list_medicines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_medicines",
		Description: "List the medicine cabinet with dose schedules",
	}, s.handleListMedicines)

	// add_medicine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_medicine",
		Description: "Add a medicine to the cabinet",
	}, s.handleAddMedicine)
}

// Tool input/output types

type addRecordInput struct {
	RecordedAt string   `json:"recorded_at,omitempty" jsonschema:"Timestamp (YYYY-MM-DD HH:MM or ISO 8601), defaults to now"`
	Systolic   *int     `json:"systolic,omitempty" jsonschema:"Systolic blood pressure in mmHg"`
	Diastolic  *int     `json:"diastolic,omitempty" jsonschema:"Diastolic blood pressure in mmHg"`
	Pulse      *int     `json:"pulse,omitempty" jsonschema:"Pulse in beats per minute"`
	Glucose    *float64 `json:"glucose,omitempty" jsonschema:"Blood glucose in mmol/L"`
}

type recordOutput struct {
	Position   int    `json:"position"`
	RecordedAt string `json:"recorded_at"`
	Summary    string `json:"summary"`
	Message    string `json:"message"`
}

type editRecordInput struct {
	Timestamp  string   `json:"timestamp" jsonschema:"Exact timestamp of the record to edit (YYYY-MM-DD HH:MM)"`
	RecordedAt string   `json:"recorded_at,omitempty" jsonschema:"New timestamp for the record"`
	Systolic   *int     `json:"systolic,omitempty" jsonschema:"New systolic value"`
	Diastolic  *int     `json:"diastolic,omitempty" jsonschema:"New diastolic value"`
	Pulse      *int     `json:"pulse,omitempty" jsonschema:"New pulse value"`
	Glucose    *float64 `json:"glucose,omitempty" jsonschema:"New glucose value"`
	Clear      []string `json:"clear,omitempty" jsonschema:"Measurements to clear (systolic, diastolic, pulse, glucose)"`
}

type removeRecordInput struct {
	Timestamp string `json:"timestamp" jsonschema:"Exact timestamp of the record to remove (YYYY-MM-DD HH:MM)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listRecordsInput struct {
	On      string `json:"on,omitempty" jsonschema:"Date to list (YYYY-MM-DD)"`
	Span    string `json:"span,omitempty" jsonschema:"Span around the matched record: single, day, or month (default day)"`
	Last    int    `json:"last,omitempty" jsonschema:"List the last N records instead of a date"`
	Before  string `json:"before,omitempty" jsonschema:"Anchor date for last (defaults to the newest record)"`
	Columns string `json:"columns,omitempty" jsonschema:"Column preset: all, glucose, bp, pulse, or bp+pulse"`
}

type searchDateInput struct {
	Date  string `json:"date" jsonschema:"Date (YYYY-MM-DD) or timestamp to find"`
	Exact bool   `json:"exact,omitempty" jsonschema:"Match the full timestamp instead of the date"`
}

type emptyInput struct{}

type addMedicineInput struct {
	Name    string         `json:"name" jsonschema:"Medicine name (lowercase letters and spaces)"`
	Purpose string         `json:"purpose,omitempty" jsonschema:"What the medicine is for"`
	Dose    float64        `json:"dose,omitempty" jsonschema:"Dose amount"`
	Units   string         `json:"units,omitempty" jsonschema:"Dose units: g, mg, mcg, or units"`
	Times   map[string]int `json:"times,omitempty" jsonschema:"Doses per day slot (BB, AB, BL, AL, BD, AD, AAWN)"`
}

type medicineOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	Message  string `json:"message"`
}

type recordPayload struct {
	Position   int      `json:"position"`
	RecordedAt string   `json:"recorded_at"`
	Systolic   *int     `json:"systolic,omitempty"`
	Diastolic  *int     `json:"diastolic,omitempty"`
	Pulse      *int     `json:"pulse,omitempty"`
	Glucose    *float64 `json:"glucose,omitempty"`
	Summary    string   `json:"summary"`
}

func payloadFor(pos int, rec models.Record) recordPayload {
	return recordPayload{
		Position:   pos,
		RecordedAt: rec.RecordedAt.Format(timeLayout),
		Systolic:   rec.Systolic,
		Diastolic:  rec.Diastolic,
		Pulse:      rec.Pulse,
		Glucose:    rec.Glucose,
		Summary:    rec.Summary(),
	}
}

// parseTimestamp accepts the formats agents actually send: date-time
// with a space or a T, ISO 8601, or a bare date.
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02T15:04",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", value)
}

// Tool handlers

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	at := time.Now()
	if input.RecordedAt != "" {
		parsed, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, recordOutput{}, err
		}
		at = parsed
	}

	rec := models.NewRecord(at)
	if input.Systolic != nil {
		rec.WithSystolic(*input.Systolic)
	}
	if input.Diastolic != nil {
		rec.WithDiastolic(*input.Diastolic)
	}
	if input.Pulse != nil {
		rec.WithPulse(*input.Pulse)
	}
	if input.Glucose != nil {
		rec.WithGlucose(*input.Glucose)
	}

	pos, err := s.store.Add(*rec)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add record: %w", err)
	}

	added, err := s.store.Record(pos)
	if err != nil {
		return nil, recordOutput{}, err
	}

	return nil, recordOutput{
		Position:   pos,
		RecordedAt: added.RecordedAt.Format(timeLayout),
		Summary:    added.Summary(),
		Message:    fmt.Sprintf("Added record at %s: %s", added.RecordedAt.Format(timeLayout), added.Summary()),
	}, nil
}

func (s *Server) handleEditRecord(ctx context.Context, req *mcp.CallToolRequest, input editRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	at, err := parseTimestamp(input.Timestamp)
	if err != nil {
		return nil, recordOutput{}, err
	}

	pos, err := s.store.SearchDate(at, vitals.MatchExact)
	if err != nil {
		return nil, recordOutput{}, err
	}

	changes, err := buildChanges(input)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if len(changes) == 0 {
		return nil, recordOutput{}, fmt.Errorf("nothing to change")
	}

	newPos, err := s.store.Edit(pos, changes...)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to edit record: %w", err)
	}

	edited, err := s.store.Record(newPos)
	if err != nil {
		return nil, recordOutput{}, err
	}

	return nil, recordOutput{
		Position:   newPos,
		RecordedAt: edited.RecordedAt.Format(timeLayout),
		Summary:    edited.Summary(),
		Message:    fmt.Sprintf("Updated record at %s: %s", edited.RecordedAt.Format(timeLayout), edited.Summary()),
	}, nil
}

func buildChanges(input editRecordInput) ([]vitals.Change, error) {
	var changes []vitals.Change
	if input.RecordedAt != "" {
		at, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, err
		}
		changes = append(changes, vitals.SetRecordedAt(at))
	}
	if input.Systolic != nil {
		changes = append(changes, vitals.SetSystolic(*input.Systolic))
	}
	if input.Diastolic != nil {
		changes = append(changes, vitals.SetDiastolic(*input.Diastolic))
	}
	if input.Pulse != nil {
		changes = append(changes, vitals.SetPulse(*input.Pulse))
	}
	if input.Glucose != nil {
		changes = append(changes, vitals.SetGlucose(*input.Glucose))
	}
	for _, field := range input.Clear {
		switch field {
		case "systolic", "sys":
			changes = append(changes, vitals.ClearSystolic())
		case "diastolic", "dia":
			changes = append(changes, vitals.ClearDiastolic())
		case "pulse":
			changes = append(changes, vitals.ClearPulse())
		case "glucose":
			changes = append(changes, vitals.ClearGlucose())
		default:
			return nil, fmt.Errorf("unknown measurement to clear: %q", field)
		}
	}
	return changes, nil
}

func (s *Server) handleRemoveRecord(ctx context.Context, req *mcp.CallToolRequest, input removeRecordInput) (*mcp.CallToolResult, simpleOutput, error) {
	at, err := parseTimestamp(input.Timestamp)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	pos, err := s.store.SearchDate(at, vitals.MatchExact)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	removed, err := s.store.Remove(pos)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to remove record: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Removed record at %s: %s", removed.RecordedAt.Format(timeLayout), removed.Summary()),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	window, err := s.selectWindow(input)
	if err != nil {
		return nil, nil, err
	}

	preset := input.Columns
	if preset == "" {
		preset = vitals.PresetAll
	}
	cols, err := s.store.Preset(preset)
	if err != nil {
		return nil, nil, err
	}

	view, err := s.store.Project(window, cols)
	if err != nil {
		return nil, nil, err
	}

	if len(view.Rows) == 0 {
		return nil, map[string]interface{}{"message": "No records found."}, nil
	}

	payloads := make([]recordPayload, 0, len(view.Rows))
	for _, row := range view.Rows {
		payloads = append(payloads, payloadFor(row.Position, row.Record))
	}

	result := map[string]interface{}{
		"count":   len(payloads),
		"records": payloads,
	}
	if window.Notice != "" {
		result["notice"] = window.Notice
	}
	return nil, result, nil
}

func (s *Server) selectWindow(input listRecordsInput) (vitals.Window, error) {
	switch {
	case input.On != "":
		at, err := parseTimestamp(input.On)
		if err != nil {
			return vitals.Window{}, err
		}
		pos, err := s.store.SearchDate(at, vitals.MatchDate)
		if err != nil {
			return vitals.Window{}, err
		}
		switch input.Span {
		case "single":
			return s.store.SelectSingle(pos)
		case "", "day":
			return s.store.SelectSpan(pos, vitals.Day)
		case "month":
			return s.store.SelectSpan(pos, vitals.Month)
		default:
			return vitals.Window{}, fmt.Errorf("unknown span: %q", input.Span)
		}

	case input.Last > 0:
		anchor, err := s.store.Latest()
		if err != nil {
			return vitals.Window{}, err
		}
		if input.Before != "" {
			at, perr := parseTimestamp(input.Before)
			if perr != nil {
				return vitals.Window{}, perr
			}
			anchor, err = s.store.SearchDate(at, vitals.MatchDate)
			if err != nil {
				return vitals.Window{}, err
			}
		}
		return s.store.SelectBefore(anchor, input.Last)

	default:
		return s.store.SelectAll(), nil
	}
}

func (s *Server) handleSearchDate(ctx context.Context, req *mcp.CallToolRequest, input searchDateInput) (*mcp.CallToolResult, any, error) {
	at, err := parseTimestamp(input.Date)
	if err != nil {
		return nil, nil, err
	}

	match := vitals.MatchDate
	if input.Exact {
		match = vitals.MatchExact
	}

	pos, err := s.store.SearchDate(at, match)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.store.Record(pos)
	if err != nil {
		return nil, nil, err
	}
	return nil, payloadFor(pos, rec), nil
}

func (s *Server) handleLatestRecord(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	pos, err := s.store.Latest()
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.store.Record(pos)
	if err != nil {
		return nil, nil, err
	}
	return nil, payloadFor(pos, rec), nil
}

func (s *Server) handleUndoAll(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.store.UndoAll()
	s.cabinet.UndoAll()

	return nil, simpleOutput{
		Message: fmt.Sprintf("Restored the session baseline: %d records, %d medicines. Not yet saved to disk.",
			s.store.Len(), s.cabinet.Len()),
	}, nil
}

func (s *Server) handleSaveRecords(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.files.SaveRecords(s.store.Records()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save records: %w", err)
	}
	if err := s.files.SaveMedicines(s.cabinet.List()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save medicines: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Saved %d records and %d medicines to %s", s.store.Len(), s.cabinet.Len(), s.files.Dir()),
	}, nil
}

func (s *Server) handleListMedicines(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	meds := s.cabinet.List()
	if len(meds) == 0 {
		return nil, map[string]interface{}{"message": "No medicines found."}, nil
	}

	type medicinePayload struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Purpose  string  `json:"purpose,omitempty"`
		Dose     float64 `json:"dose"`
		Units    string  `json:"units"`
		Schedule string  `json:"schedule"`
		PerDay   int     `json:"per_day"`
	}

	payloads := make([]medicinePayload, 0, len(meds))
	for _, m := range meds {
		payloads = append(payloads, medicinePayload{
			ID:       m.ID.String(),
			Name:     m.Name,
			Purpose:  m.Purpose,
			Dose:     m.Dose,
			Units:    m.Units,
			Schedule: m.Schedule(),
			PerDay:   m.DailyDoses(),
		})
	}
	return nil, payloads, nil
}

func (s *Server) handleAddMedicine(ctx context.Context, req *mcp.CallToolRequest, input addMedicineInput) (*mcp.CallToolResult, medicineOutput, error) {
	m := models.NewMedicine(input.Name)
	if input.Purpose != "" {
		m.WithPurpose(input.Purpose)
	}
	if input.Dose > 0 || input.Units != "" {
		units := input.Units
		if units == "" {
			units = m.Units
		}
		m.WithDose(input.Dose, units)
	}
	if len(input.Times) > 0 {
		m.WithTimes(input.Times)
	}

	if err := s.cabinet.Add(*m); err != nil {
		return nil, medicineOutput{}, fmt.Errorf("failed to add medicine: %w", err)
	}

	return nil, medicineOutput{
		ID:       m.ID.String()[:8],
		Name:     m.Name,
		Schedule: m.Schedule(),
		Message:  fmt.Sprintf("Added %s %g %s (ID: %s)", m.Name, m.Dose, m.Units, m.ID.String()[:8]),
	}, nil
}
