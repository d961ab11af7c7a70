// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/medication"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

// setupServer builds a server over a seeded in-memory session and a
// temp-dir CSV store.
func setupServer(t *testing.T) *Server {
	t.Helper()

	records := []models.Record{
		*models.NewRecord(mustTime(t, "2024-01-05 08:00")).WithGlucose(5.5),
		*models.NewRecord(mustTime(t, "2024-01-05 20:00")).WithSystolic(128).WithDiastolic(83).WithPulse(71).WithGlucose(5.8),
		*models.NewRecord(mustTime(t, "2024-02-10 09:00")).WithGlucose(6.1),
		*models.NewRecord(mustTime(t, "2024-02-11 09:30")).WithSystolic(135).WithDiastolic(85),
		*models.NewRecord(mustTime(t, "2024-03-02 07:45")).WithGlucose(7.0),
	}

	store, err := vitals.NewStore(vitals.DefaultConfig(), records)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}

	metformin := models.NewMedicine("metformin").
		WithPurpose("blood sugar").
		WithDose(500, "mg").
		WithTimes(map[string]int{"BB": 1, "BD": 1})
	cabinet, err := medication.NewCabinet([]models.Medicine{*metformin})
	if err != nil {
		t.Fatalf("Failed to build cabinet: %v", err)
	}

	files, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}

	server, err := NewServer(store, cabinet, files)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("Expected non-nil store")
	}
	if server.cabinet == nil {
		t.Error("Expected non-nil cabinet")
	}
	if server.files == nil {
		t.Error("Expected non-nil files")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-01-05 08:00", false},
		{"2024-01-05T08:00", false},
		{"2024-01-05T08:00:00Z", false},
		{"2024-01-05", false},
		{"yesterday", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseTimestamp(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("parseTimestamp(%q) should fail", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("parseTimestamp(%q) error = %v", tt.input, err)
			}
		})
	}
}

func TestHandleAddRecord(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	sys, dia, pulse := 122, 79, 65
	glucose := 6.4

	tests := []struct {
		name      string
		input     addRecordInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "glucose reading",
			input: addRecordInput{RecordedAt: "2024-01-20 07:30", Glucose: &glucose},
		},
		{
			name:  "blood pressure and pulse",
			input: addRecordInput{RecordedAt: "2024-01-21 07:30", Systolic: &sys, Diastolic: &dia, Pulse: &pulse},
		},
		{
			name:  "defaults to now",
			input: addRecordInput{Pulse: &pulse},
		},
		{
			name:      "duplicate timestamp",
			input:     addRecordInput{RecordedAt: "2024-01-05 08:00", Glucose: &glucose},
			wantErr:   true,
			errSubstr: "duplicate timestamp",
		},
		{
			name:      "empty record",
			input:     addRecordInput{RecordedAt: "2024-01-22 07:30"},
			wantErr:   true,
			errSubstr: "no measurements",
		},
		{
			name:      "bad timestamp",
			input:     addRecordInput{RecordedAt: "someday", Glucose: &glucose},
			wantErr:   true,
			errSubstr: "unrecognized timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddRecord(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if output.RecordedAt == "" {
				t.Error("Expected non-empty RecordedAt")
			}
			if output.Message == "" {
				t.Error("Expected non-empty Message")
			}
		})
	}
}

func TestHandleAddRecordOutOfRange(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	before := server.store.Len()
	sys := 500
	_, _, err := server.handleAddRecord(ctx, &mcp.CallToolRequest{}, addRecordInput{
		RecordedAt: "2024-01-20 07:30",
		Systolic:   &sys,
	})
	if err == nil {
		t.Fatal("Expected error for out-of-range systolic")
	}
	if server.store.Len() != before {
		t.Errorf("Store grew on a rejected add: %d -> %d", before, server.store.Len())
	}
}

func TestHandleEditRecord(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	pulse := 68
	_, output, err := server.handleEditRecord(ctx, &mcp.CallToolRequest{}, editRecordInput{
		Timestamp: "2024-01-05 20:00",
		Pulse:     &pulse,
		Clear:     []string{"glucose"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rec, err := server.store.Record(output.Position)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if rec.Pulse == nil || *rec.Pulse != 68 {
		t.Errorf("Pulse = %v, want 68", rec.Pulse)
	}
	if rec.Glucose != nil {
		t.Errorf("Glucose should be cleared, got %v", *rec.Glucose)
	}
	if rec.Systolic == nil || *rec.Systolic != 128 {
		t.Error("Untouched systolic should survive the edit")
	}
}

func TestHandleEditRecordMove(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleEditRecord(ctx, &mcp.CallToolRequest{}, editRecordInput{
		Timestamp:  "2024-01-05 08:00",
		RecordedAt: "2024-03-10 08:00",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Position != server.store.Len()-1 {
		t.Errorf("Moved record position = %d, want %d", output.Position, server.store.Len()-1)
	}
}

func TestHandleEditRecordErrors(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	pulse := 68
	tests := []struct {
		name  string
		input editRecordInput
	}{
		{"unknown timestamp", editRecordInput{Timestamp: "2024-09-09 09:00", Pulse: &pulse}},
		{"nothing to change", editRecordInput{Timestamp: "2024-01-05 20:00"}},
		{"unknown clear field", editRecordInput{Timestamp: "2024-01-05 20:00", Clear: []string{"weight"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleEditRecord(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleRemoveRecord(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	before := server.store.Len()
	_, output, err := server.handleRemoveRecord(ctx, &mcp.CallToolRequest{}, removeRecordInput{
		Timestamp: "2024-02-10 09:00",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if server.store.Len() != before-1 {
		t.Errorf("Store length = %d, want %d", server.store.Len(), before-1)
	}
	if !strings.Contains(output.Message, "2024-02-10 09:00") {
		t.Errorf("Message should name the removed timestamp: %q", output.Message)
	}
}

func TestHandleRemoveRecordNotFound(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, _, err := server.handleRemoveRecord(ctx, &mcp.CallToolRequest{}, removeRecordInput{
		Timestamp: "2024-09-09 09:00",
	})
	if err == nil {
		t.Error("Expected error for unknown timestamp")
	}
}

func TestHandleListRecords(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     listRecordsInput
		wantCount int
	}{
		{"everything", listRecordsInput{}, 5},
		{"one day", listRecordsInput{On: "2024-01-05"}, 2},
		{"single record", listRecordsInput{On: "2024-02-10", Span: "single"}, 1},
		{"whole month", listRecordsInput{On: "2024-02-10", Span: "month"}, 2},
		{"last two", listRecordsInput{Last: 2}, 2},
		{"last before date", listRecordsInput{Last: 2, Before: "2024-02-10"}, 2},
		{"bp columns drop glucose-only rows", listRecordsInput{Columns: "bp"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			result, ok := output.(map[string]interface{})
			if !ok {
				t.Fatalf("Expected map output, got %T", output)
			}
			if result["count"] != tt.wantCount {
				t.Errorf("count = %v, want %d", result["count"], tt.wantCount)
			}
		})
	}
}

func TestHandleListRecordsClampNotice(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Last: 50})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := output.(map[string]interface{})
	notice, ok := result["notice"].(string)
	if !ok || !strings.Contains(notice, "showing all") {
		t.Errorf("Expected a clamp notice, got %v", result["notice"])
	}
}

func TestHandleListRecordsErrors(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input listRecordsInput
	}{
		{"unknown preset", listRecordsInput{Columns: "weight"}},
		{"unknown span", listRecordsInput{On: "2024-01-05", Span: "week"}},
		{"date with no records", listRecordsInput{On: "2024-07-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleListRecordsEmptyStore(t *testing.T) {
	store, _ := vitals.NewStore(vitals.DefaultConfig(), nil)
	cabinet, _ := medication.NewCabinet(nil)
	files, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	server, _ := NewServer(store, cabinet, files)

	_, output, err := server.handleListRecords(context.Background(), &mcp.CallToolRequest{}, listRecordsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, ok := output.(map[string]interface{})
	if !ok || result["message"] == nil {
		t.Errorf("Expected a no-records message, got %v", output)
	}
}

func TestHandleSearchDate(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleSearchDate(ctx, &mcp.CallToolRequest{}, searchDateInput{Date: "2024-02-11"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	payload, ok := output.(recordPayload)
	if !ok {
		t.Fatalf("Expected recordPayload, got %T", output)
	}
	if payload.Position != 3 {
		t.Errorf("Position = %d, want 3", payload.Position)
	}
	if payload.Systolic == nil || *payload.Systolic != 135 {
		t.Errorf("Systolic = %v, want 135", payload.Systolic)
	}
}

func TestHandleSearchDateExact(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	// Right date, wrong time: exact match must miss.
	_, _, err := server.handleSearchDate(ctx, &mcp.CallToolRequest{}, searchDateInput{
		Date:  "2024-02-11 10:00",
		Exact: true,
	})
	if err == nil {
		t.Error("Expected exact search to miss")
	}

	_, output, err := server.handleSearchDate(ctx, &mcp.CallToolRequest{}, searchDateInput{
		Date:  "2024-02-11 09:30",
		Exact: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if payload := output.(recordPayload); payload.Position != 3 {
		t.Errorf("Position = %d, want 3", payload.Position)
	}
}

func TestHandleLatestRecord(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleLatestRecord(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	payload, ok := output.(recordPayload)
	if !ok {
		t.Fatalf("Expected recordPayload, got %T", output)
	}
	if payload.RecordedAt != "2024-03-02 07:45" {
		t.Errorf("RecordedAt = %s, want 2024-03-02 07:45", payload.RecordedAt)
	}
}

func TestHandleUndoAll(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	glucose := 9.9
	if _, _, err := server.handleAddRecord(ctx, &mcp.CallToolRequest{}, addRecordInput{
		RecordedAt: "2024-04-01 08:00",
		Glucose:    &glucose,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, _, err := server.handleAddMedicine(ctx, &mcp.CallToolRequest{}, addMedicineInput{
		Name: "aspirin",
	}); err != nil {
		t.Fatalf("add medicine failed: %v", err)
	}

	_, output, err := server.handleUndoAll(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if server.store.Len() != 5 {
		t.Errorf("Store length after undo = %d, want 5", server.store.Len())
	}
	if server.cabinet.Len() != 1 {
		t.Errorf("Cabinet length after undo = %d, want 1", server.cabinet.Len())
	}
	if !strings.Contains(output.Message, "5 records") {
		t.Errorf("Message should report the restored counts: %q", output.Message)
	}
}

func TestHandleSaveRecords(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleSaveRecords(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output.Message, "5 records") {
		t.Errorf("Message should report the saved counts: %q", output.Message)
	}

	records, err := server.files.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(records) != 5 {
		t.Errorf("Loaded %d records, want 5", len(records))
	}

	meds, err := server.files.LoadMedicines()
	if err != nil {
		t.Fatalf("LoadMedicines() error = %v", err)
	}
	if len(meds) != 1 {
		t.Errorf("Loaded %d medicines, want 1", len(meds))
	}
}

func TestHandleListMedicines(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleListMedicines(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The payload type is local to the handler; round-trip through the
	// message shape instead.
	if _, isMessage := output.(map[string]interface{}); isMessage {
		t.Fatal("Expected medicine list, got message map")
	}
}

func TestHandleListMedicinesEmpty(t *testing.T) {
	store, _ := vitals.NewStore(vitals.DefaultConfig(), nil)
	cabinet, _ := medication.NewCabinet(nil)
	files, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	server, _ := NewServer(store, cabinet, files)

	_, output, err := server.handleListMedicines(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, ok := output.(map[string]interface{})
	if !ok || result["message"] == nil {
		t.Errorf("Expected a no-medicines message, got %v", output)
	}
}

func TestHandleAddMedicine(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleAddMedicine(ctx, &mcp.CallToolRequest{}, addMedicineInput{
		Name:    "Lisinopril",
		Purpose: "blood pressure",
		Dose:    10,
		Units:   "mg",
		Times:   map[string]int{"BB": 1},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Name != "lisinopril" {
		t.Errorf("Name = %q, want normalized %q", output.Name, "lisinopril")
	}
	if output.Schedule != "BB:1" {
		t.Errorf("Schedule = %q, want BB:1", output.Schedule)
	}
	if server.cabinet.Len() != 2 {
		t.Errorf("Cabinet length = %d, want 2", server.cabinet.Len())
	}
}

func TestHandleAddMedicineErrors(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input addMedicineInput
	}{
		{"invalid name", addMedicineInput{Name: "vitamin b12"}},
		{"duplicate", addMedicineInput{Name: "metformin"}},
		{"bad units", addMedicineInput{Name: "aspirin", Dose: 100, Units: "ml"}},
		{"bad slot", addMedicineInput{Name: "aspirin", Times: map[string]int{"NOON": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleAddMedicine(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleRecentResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	result, err := server.handleRecentResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result == nil || len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}

	text := result.Contents[0].Text
	if !strings.Contains(text, "2024-03-02 07:45") {
		t.Error("Expected the newest record in the recent resource")
	}
	if !strings.Contains(text, "metformin") {
		t.Error("Expected the medicine cabinet in the recent resource")
	}
	if result.Contents[0].URI != "vitals://recent" {
		t.Errorf("URI = %s, want vitals://recent", result.Contents[0].URI)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	// Nothing from the fixture is dated today.
	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "\"count\": 0") {
		t.Errorf("Expected zero records today, got %s", result.Contents[0].Text)
	}

	// Add one dated now and it should show up.
	glucose := 6.2
	if _, _, err := server.handleAddRecord(ctx, &mcp.CallToolRequest{}, addRecordInput{Glucose: &glucose}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err = server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "\"count\": 1") {
		t.Errorf("Expected one record today, got %s", result.Contents[0].Text)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := result.Contents[0].Text

	// Latest glucose is the 2024-03-02 reading; latest BP is from 2024-02-11.
	if !strings.Contains(text, "\"glucose\"") || !strings.Contains(text, "2024-03-02 07:45") {
		t.Error("Expected latest glucose in summary")
	}
	if !strings.Contains(text, "\"systolic\"") || !strings.Contains(text, "2024-02-11 09:30") {
		t.Error("Expected latest blood pressure in summary")
	}
	if !strings.Contains(text, "metformin") {
		t.Error("Expected medicines in summary")
	}
	if !strings.Contains(text, "\"record_count\": 5") {
		t.Error("Expected record count in summary")
	}
}
