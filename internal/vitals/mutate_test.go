// ABOUTME: Tests for add, edit, and remove.
// ABOUTME: Every failure path must leave the store exactly as it was.
package vitals

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harperreed/vitals/internal/models"
)

// storeFingerprint renders the whole store for before/after comparison.
func storeFingerprint(s *Store) string {
	out := ""
	for i, r := range s.Records() {
		out += fmt.Sprintf("%d|%s|%s\n", i, r.RecordedAt.Format("2006-01-02 15:04"), r.Summary())
	}
	return out
}

func TestAdd(t *testing.T) {
	s := fixtureStore(t)

	pos, err := s.Add(glucoseAt(t, "2024-01-20 07:30", 6.4))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if pos != 2 {
		t.Errorf("Add returned position %d, want 2", pos)
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d, want 6", s.Len())
	}

	// Positions after the insertion point shifted by one.
	got, _ := s.Record(3)
	if !got.RecordedAt.Equal(mustTime(t, "2024-02-10 09:00")) {
		t.Errorf("Record(3) = %v, want the February record", got.RecordedAt)
	}
}

func TestAddToEmptyStore(t *testing.T) {
	s := newTestStore(t)

	pos, err := s.Add(glucoseAt(t, "2024-01-05 08:00", 5.5))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if pos != 0 {
		t.Errorf("Position = %d, want 0", pos)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestAddDuplicate(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	_, err := s.Add(bpAt(t, "2024-01-05 08:00", 120, 80))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
	if !strings.Contains(err.Error(), "2024-01-05 08:00") {
		t.Errorf("Error %q should name the colliding timestamp", err.Error())
	}
	if storeFingerprint(s) != before {
		t.Error("Failed add modified the store")
	}
}

func TestAddSameDateDifferentTime(t *testing.T) {
	s := fixtureStore(t)

	// Duplicate detection is at timestamp level, not date level.
	if _, err := s.Add(glucoseAt(t, "2024-01-05 12:00", 6.0)); err != nil {
		t.Errorf("Add on an existing date failed: %v", err)
	}
}

func TestAddEmptyRecord(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	_, err := s.Add(*models.NewRecord(mustTime(t, "2024-06-01 08:00")))
	if !errors.Is(err, ErrEmptyRecord) {
		t.Fatalf("Expected ErrEmptyRecord, got %v", err)
	}
	if storeFingerprint(s) != before {
		t.Error("Failed add modified the store")
	}
}

func TestAddOutOfRange(t *testing.T) {
	s := fixtureStore(t)

	tests := []struct {
		name   string
		record models.Record
	}{
		{"systolic too high", bpAt(t, "2024-06-01 08:00", 300, 80)},
		{"systolic too low", bpAt(t, "2024-06-01 08:00", 20, 80)},
		{"diastolic too high", bpAt(t, "2024-06-01 08:00", 120, 305)},
		{"pulse too low", *models.NewRecord(mustTime(t, "2024-06-01 08:00")).WithPulse(10)},
		{"pulse too high", *models.NewRecord(mustTime(t, "2024-06-01 08:00")).WithPulse(200)},
		{"glucose zero", glucoseAt(t, "2024-06-01 08:00", 0)},
		{"glucose too high", glucoseAt(t, "2024-06-01 08:00", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := storeFingerprint(s)
			if _, err := s.Add(tt.record); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Expected ErrOutOfRange, got %v", err)
			}
			if storeFingerprint(s) != before {
				t.Error("Failed add modified the store")
			}
		})
	}
}

func TestAddBoundaryValues(t *testing.T) {
	s := fixtureStore(t)

	// Exclusive bounds: one inside the limit is accepted.
	if _, err := s.Add(bpAt(t, "2024-06-01 08:00", 299, 21)); err != nil {
		t.Errorf("Add(299/21) failed: %v", err)
	}
	if _, err := s.Add(*models.NewRecord(mustTime(t, "2024-06-02 08:00")).WithPulse(199)); err != nil {
		t.Errorf("Add(pulse 199) failed: %v", err)
	}
	if _, err := s.Add(glucoseAt(t, "2024-06-03 08:00", 29.9)); err != nil {
		t.Errorf("Add(glucose 29.9) failed: %v", err)
	}
}

func TestEditValues(t *testing.T) {
	s := fixtureStore(t)

	pos, err := s.Edit(1, SetPulse(68), ClearGlucose())
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if pos != 1 {
		t.Errorf("Edit returned position %d, want 1", pos)
	}

	got, _ := s.Record(1)
	if got.Pulse == nil || *got.Pulse != 68 {
		t.Errorf("Pulse = %v, want 68", got.Pulse)
	}
	if got.Glucose != nil {
		t.Error("Glucose should have been cleared")
	}
	if got.Systolic == nil || *got.Systolic != 128 {
		t.Error("Untouched fields must survive an edit")
	}
}

func TestEditTimestampMovesRecord(t *testing.T) {
	s := fixtureStore(t)

	// Move the first record past the end of the store.
	pos, err := s.Edit(0, SetRecordedAt(mustTime(t, "2024-12-01 08:00")))
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if pos != 4 {
		t.Errorf("Edit returned position %d, want 4", pos)
	}

	records := s.Records()
	for i := 1; i < len(records); i++ {
		if !records[i-1].RecordedAt.Before(records[i].RecordedAt) {
			t.Errorf("Store out of order at %d after timestamp edit", i)
		}
	}
}

func TestEditToDuplicateTimestamp(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	_, err := s.Edit(0, SetRecordedAt(mustTime(t, "2024-02-10 09:00")))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
	if storeFingerprint(s) != before {
		t.Error("Failed edit modified the store")
	}
}

func TestEditCannotEmptyRecord(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	// Position 0 has only glucose; clearing it would empty the record.
	_, err := s.Edit(0, ClearGlucose())
	if !errors.Is(err, ErrEmptyRecord) {
		t.Fatalf("Expected ErrEmptyRecord, got %v", err)
	}
	if storeFingerprint(s) != before {
		t.Error("Failed edit modified the store")
	}
}

func TestEditOutOfRangeRollsBack(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	// One valid change plus one invalid one: neither may stick.
	_, err := s.Edit(1, SetPulse(65), SetSystolic(500))
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
	if storeFingerprint(s) != before {
		t.Error("Partially applied edit is visible")
	}
}

func TestEditUnknownPosition(t *testing.T) {
	s := fixtureStore(t)
	if _, err := s.Edit(17, SetPulse(66)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEditSameTimestampNoCollision(t *testing.T) {
	s := fixtureStore(t)

	// Re-setting the record's own timestamp is not a duplicate.
	pos, err := s.Edit(2, SetRecordedAt(mustTime(t, "2024-02-10 09:00")), SetGlucose(6.3))
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if pos != 2 {
		t.Errorf("Position = %d, want 2", pos)
	}
}

func TestRemove(t *testing.T) {
	s := fixtureStore(t)

	removed, err := s.Remove(2)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed.RecordedAt.Equal(mustTime(t, "2024-02-10 09:00")) {
		t.Errorf("Removed %v, want the February record", removed.RecordedAt)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	// The following record slid into the removed slot.
	got, _ := s.Record(2)
	if !got.RecordedAt.Equal(mustTime(t, "2024-02-11 09:30")) {
		t.Errorf("Record(2) = %v after remove", got.RecordedAt)
	}
}

func TestRemoveUnknownPosition(t *testing.T) {
	s := fixtureStore(t)
	before := storeFingerprint(s)

	if _, err := s.Remove(-1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := s.Remove(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if storeFingerprint(s) != before {
		t.Error("Failed remove modified the store")
	}
}

func TestRemoveLastRecord(t *testing.T) {
	s := newTestStore(t, glucoseAt(t, "2024-01-05 08:00", 5.5))

	if _, err := s.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestMutationSequenceKeepsOrder(t *testing.T) {
	s := newTestStore(t)

	// Interleave adds, edits, and removes, checking the sort invariant
	// and position contiguity after every step.
	steps := []func() error{
		func() error { _, err := s.Add(glucoseAt(t, "2024-03-01 08:00", 5.0)); return err },
		func() error { _, err := s.Add(glucoseAt(t, "2024-01-01 08:00", 5.1)); return err },
		func() error { _, err := s.Add(glucoseAt(t, "2024-02-01 08:00", 5.2)); return err },
		func() error { _, err := s.Edit(0, SetRecordedAt(mustTime(t, "2024-04-01 08:00"))); return err },
		func() error { _, err := s.Add(glucoseAt(t, "2024-01-15 08:00", 5.3)); return err },
		func() error { _, err := s.Remove(1); return err },
		func() error { _, err := s.Edit(s.Len()-1, SetGlucose(9.9)); return err },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
		records := s.Records()
		for j := 1; j < len(records); j++ {
			if !records[j-1].RecordedAt.Before(records[j].RecordedAt) {
				t.Fatalf("Sort invariant broken after step %d", i)
			}
		}
		for j := range records {
			got, err := s.Record(j)
			if err != nil {
				t.Fatalf("Position %d unreachable after step %d: %v", j, i, err)
			}
			if !got.RecordedAt.Equal(records[j].RecordedAt) {
				t.Fatalf("Position %d inconsistent after step %d", j, i)
			}
		}
	}
}
