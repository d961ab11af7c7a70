// ABOUTME: Column projection over a window of positions.
// ABOUTME: Always keeps the timestamp; drops rows empty across the requested columns.
package vitals

import (
	"fmt"

	"github.com/harperreed/vitals/internal/models"
)

// Row pairs a projected record with its position in the store, so
// callers can display or act on the row without re-searching.
type Row struct {
	Position int
	Record   models.Record
}

// View is the result of projecting a window onto a column subset.
type View struct {
	Columns []Column
	Rows    []Row
}

// Preset resolves a configured preset name to its column list.
func (s *Store) Preset(name string) ([]Column, error) {
	cols, ok := s.cfg.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown column preset %q", name)
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return out, nil
}

// Project returns the window's records narrowed to the given columns.
// Rows whose requested measurements are all absent are dropped from the
// view. The store itself is never modified; projecting is a read.
func (s *Store) Project(w Window, cols []Column) (View, error) {
	if len(cols) == 0 {
		return View{}, fmt.Errorf("no columns requested")
	}
	for _, c := range cols {
		if !validColumn(c) {
			return View{}, fmt.Errorf("unknown column %q", c)
		}
	}

	view := View{Columns: append([]Column(nil), cols...)}
	for _, pos := range w.Positions {
		if pos < 0 || pos >= len(s.records) {
			return View{}, fmt.Errorf("position %d: %w", pos, ErrNotFound)
		}
		rec := projectRecord(s.records[pos], cols)
		if rec.IsEmpty() {
			continue
		}
		view.Rows = append(view.Rows, Row{Position: pos, Record: rec})
	}
	return view, nil
}

// ProjectRecords narrows a record slice to the given columns and drops
// rows left empty. Applying it twice with the same columns returns the
// same rows as applying it once.
func ProjectRecords(records []models.Record, cols []Column) []models.Record {
	var out []models.Record
	for _, r := range records {
		rec := projectRecord(r, cols)
		if rec.IsEmpty() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func projectRecord(r models.Record, cols []Column) models.Record {
	out := models.Record{RecordedAt: r.RecordedAt}
	for _, c := range cols {
		switch c {
		case ColSystolic:
			if r.Systolic != nil {
				v := *r.Systolic
				out.Systolic = &v
			}
		case ColDiastolic:
			if r.Diastolic != nil {
				v := *r.Diastolic
				out.Diastolic = &v
			}
		case ColPulse:
			if r.Pulse != nil {
				v := *r.Pulse
				out.Pulse = &v
			}
		case ColGlucose:
			if r.Glucose != nil {
				v := *r.Glucose
				out.Glucose = &v
			}
		}
	}
	return out
}

func validColumn(c Column) bool {
	switch c {
	case ColSystolic, ColDiastolic, ColPulse, ColGlucose:
		return true
	}
	return false
}
