// ABOUTME: Add, edit, and remove operations for the record store.
// ABOUTME: Every mutation runs against a snapshot that is restored on failure.
package vitals

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
)

// Change applies one field update during Edit.
type Change func(*models.Record)

// SetRecordedAt moves the record to a new timestamp.
func SetRecordedAt(t time.Time) Change {
	return func(r *models.Record) { r.RecordedAt = t.Truncate(time.Minute) }
}

// SetSystolic sets the systolic pressure in mmHg.
func SetSystolic(v int) Change {
	return func(r *models.Record) { r.WithSystolic(v) }
}

// ClearSystolic removes the systolic value.
func ClearSystolic() Change {
	return func(r *models.Record) { r.Systolic = nil }
}

// SetDiastolic sets the diastolic pressure in mmHg.
func SetDiastolic(v int) Change {
	return func(r *models.Record) { r.WithDiastolic(v) }
}

// ClearDiastolic removes the diastolic value.
func ClearDiastolic() Change {
	return func(r *models.Record) { r.Diastolic = nil }
}

// SetPulse sets the pulse in bpm.
func SetPulse(v int) Change {
	return func(r *models.Record) { r.WithPulse(v) }
}

// ClearPulse removes the pulse value.
func ClearPulse() Change {
	return func(r *models.Record) { r.Pulse = nil }
}

// SetGlucose sets the glucose in mmol/L, rounded to one decimal.
func SetGlucose(v float64) Change {
	return func(r *models.Record) { r.WithGlucose(v) }
}

// ClearGlucose removes the glucose value.
func ClearGlucose() Change {
	return func(r *models.Record) { r.Glucose = nil }
}

// mutate snapshots the store, runs op, and rolls back if op fails. No
// partially applied mutation is ever visible to a caller.
func (s *Store) mutate(op func() (int, error)) (int, error) {
	snap := s.Snapshot()
	pos, err := op()
	if err != nil {
		s.Restore(snap)
		return 0, err
	}
	return pos, nil
}

// Add validates and inserts a record, then re-sorts so positions stay
// contiguous. A record with no measurements is rejected with
// ErrEmptyRecord; a timestamp collision with ErrDuplicate naming the
// colliding timestamp. Returns the new record's position.
func (s *Store) Add(rec models.Record) (int, error) {
	return s.mutate(func() (int, error) {
		if rec.IsEmpty() {
			return 0, ErrEmptyRecord
		}
		if err := s.cfg.Ranges.Validate(rec); err != nil {
			return 0, err
		}
		if err := s.checkDuplicate(rec.RecordedAt); err != nil {
			return 0, err
		}

		s.records = append(s.records, rec.Clone())
		s.sortRecords()
		return s.SearchDate(rec.RecordedAt, MatchExact)
	})
}

// Edit applies the changes to the record at pos, then re-validates the
// whole record: it must keep at least one measurement, every value must
// stay in its plausible range, and a moved timestamp must not collide
// with another record. On any violation the store is rolled back and
// the record keeps its previous state. Returns the record's position
// after the edit, which shifts when the timestamp moved.
func (s *Store) Edit(pos int, changes ...Change) (int, error) {
	return s.mutate(func() (int, error) {
		if pos < 0 || pos >= len(s.records) {
			return 0, fmt.Errorf("position %d: %w", pos, ErrNotFound)
		}

		rec := &s.records[pos]
		before := rec.RecordedAt
		for _, change := range changes {
			change(rec)
		}

		if rec.IsEmpty() {
			return 0, ErrEmptyRecord
		}
		if err := s.cfg.Ranges.Validate(*rec); err != nil {
			return 0, err
		}

		if rec.RecordedAt.Equal(before) {
			return pos, nil
		}

		// The slice is mid-edit, so scan instead of binary searching.
		at := rec.RecordedAt
		for i := range s.records {
			if i != pos && s.records[i].RecordedAt.Equal(at) {
				return 0, fmt.Errorf("%w: %s", ErrDuplicate, at.Format(timeLayout))
			}
		}

		s.sortRecords()
		return s.SearchDate(at, MatchExact)
	})
}

// Remove deletes the record at pos and re-sorts the remainder so
// positions stay contiguous. Returns a copy of the removed record for
// the caller to display.
func (s *Store) Remove(pos int) (models.Record, error) {
	var removed models.Record
	_, err := s.mutate(func() (int, error) {
		if pos < 0 || pos >= len(s.records) {
			return 0, fmt.Errorf("position %d: %w", pos, ErrNotFound)
		}
		removed = s.records[pos].Clone()
		s.records = append(s.records[:pos], s.records[pos+1:]...)
		s.sortRecords()
		return 0, nil
	})
	if err != nil {
		return models.Record{}, err
	}
	return removed, nil
}

// checkDuplicate searches at full-timestamp granularity and reports
// ErrDuplicate when a record already occupies at.
func (s *Store) checkDuplicate(at time.Time) error {
	_, err := s.SearchDate(at, MatchExact)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicate, at.Format(timeLayout))
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}
