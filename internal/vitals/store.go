// ABOUTME: Sorted in-memory store of vital-sign records.
// ABOUTME: Positions are slice indices, re-established after every mutation.
package vitals

import (
	"fmt"
	"sort"

	"github.com/harperreed/vitals/internal/models"
)

// Display layout for timestamps in engine messages.
const timeLayout = "2006-01-02 15:04"

// Column names one of the measurement columns a view can keep. The
// timestamp is not a column; every view keeps it.
type Column string

const (
	ColSystolic  Column = "sys"
	ColDiastolic Column = "dia"
	ColPulse     Column = "pulse"
	ColGlucose   Column = "glucose"
)

// Built-in column preset names.
const (
	PresetAll        = "all"
	PresetGlucose    = "glucose"
	PresetBP         = "bp"
	PresetPulse      = "pulse"
	PresetBPAndPulse = "bp+pulse"
)

// Store holds one session's records sorted ascending by timestamp. A
// record's position is its index in that order, so positions stay
// contiguous from 0 to Len()-1 and shift when records are added or
// removed. The store owns its records: accessors hand out copies, never
// aliases.
type Store struct {
	cfg      Config
	records  []models.Record
	baseline Snapshot
}

// NewStore builds a Store from loaded records. The input is copied and
// sorted; duplicate timestamps in the input are rejected as a
// data-integrity error. The baseline snapshot for UndoAll is captured
// here. Zero-valued Config fields fall back to DefaultConfig.
func NewStore(cfg Config, records []models.Record) (*Store, error) {
	if cfg.SearchStepLimit <= 0 {
		cfg.SearchStepLimit = DefaultConfig().SearchStepLimit
	}
	if cfg.Presets == nil {
		cfg.Presets = DefaultConfig().Presets
	}
	if cfg.Ranges == (Ranges{}) {
		cfg.Ranges = DefaultConfig().Ranges
	}

	s := &Store{cfg: cfg, records: cloneRecords(records)}
	s.sortRecords()
	for i := 1; i < len(s.records); i++ {
		if s.records[i].RecordedAt.Equal(s.records[i-1].RecordedAt) {
			return nil, fmt.Errorf("%w in loaded data: %s",
				ErrDuplicate, s.records[i].RecordedAt.Format(timeLayout))
		}
	}
	s.baseline = s.Snapshot()
	return s, nil
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// Record returns a copy of the record at pos.
func (s *Store) Record(pos int) (models.Record, error) {
	if pos < 0 || pos >= len(s.records) {
		return models.Record{}, fmt.Errorf("position %d: %w", pos, ErrNotFound)
	}
	return s.records[pos].Clone(), nil
}

// Records returns a copy of every record in position order.
func (s *Store) Records() []models.Record {
	return cloneRecords(s.records)
}

// Latest returns the position of the most recent record.
func (s *Store) Latest() (int, error) {
	if len(s.records) == 0 {
		return 0, ErrNotFound
	}
	return len(s.records) - 1, nil
}

func (s *Store) sortRecords() {
	sort.Slice(s.records, func(i, j int) bool {
		return s.records[i].RecordedAt.Before(s.records[j].RecordedAt)
	})
}

func cloneRecords(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
