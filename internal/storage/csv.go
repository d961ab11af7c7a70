// ABOUTME: Flat-file persistence for records and medicines.
// ABOUTME: CSV files under the XDG data dir, written atomically with a .bak for undo.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// TimeLayout is the timestamp format used inside the CSV files.
const TimeLayout = "2006-01-02 15:04:05"

var (
	recordHeader   = []string{"datetime", "sys", "dia", "pulse", "glucose"}
	medicineHeader = []string{"id", "name", "purpose", "dose", "units",
		"BB", "AB", "BL", "AL", "BD", "AD", "AAWN"}
)

// CSV persists records and medicines as flat tabular files in a single
// directory. Each save first renames the previous file to <name>.bak,
// so the last saved state is always recoverable.
type CSV struct {
	dir string
}

// Open prepares a CSV store rooted at dir, creating the directory if
// needed.
func Open(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &CSV{dir: dir}, nil
}

// DataDir returns the default data directory following the XDG spec:
// $XDG_DATA_HOME/vitals or ~/.local/share/vitals.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vitals")
}

// Dir returns the directory this store reads and writes.
func (c *CSV) Dir() string {
	return c.dir
}

// RecordsPath returns the path of the records file.
func (c *CSV) RecordsPath() string {
	return filepath.Join(c.dir, "vitals.csv")
}

// MedicinesPath returns the path of the medicines file.
func (c *CSV) MedicinesPath() string {
	return filepath.Join(c.dir, "medicines.csv")
}

// LoadRecords reads the records file. A missing file is an empty store,
// not an error.
func (c *CSV) LoadRecords() ([]models.Record, error) {
	records, err := ReadRecordsFile(c.RecordsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

// ReadRecordsFile parses a records CSV at an arbitrary path. Used both
// for the store's own file and for importing legacy files.
func ReadRecordsFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []models.Record
	for i, row := range rows {
		if i == 0 && row[0] == recordHeader[0] {
			continue
		}
		rec, err := parseRecordRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveRecords writes records atomically, keeping the previous file as
// vitals.csv.bak.
func (c *CSV) SaveRecords(records []models.Record) error {
	return c.writeFile(c.RecordsPath(), func(w *csv.Writer) error {
		if err := w.Write(recordHeader); err != nil {
			return err
		}
		for _, rec := range records {
			if err := w.Write(recordRow(rec)); err != nil {
				return err
			}
		}
		return nil
	})
}

// RestoreRecordsBackup swaps vitals.csv.bak back into place. The file
// it displaces becomes the new backup, so a second restore toggles back.
func (c *CSV) RestoreRecordsBackup() error {
	return restoreBackup(c.RecordsPath())
}

// LoadMedicines reads the medicines file. A missing file is an empty
// cabinet.
func (c *CSV) LoadMedicines() ([]models.Medicine, error) {
	f, err := os.Open(c.MedicinesPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse medicines.csv: %w", err)
	}

	var meds []models.Medicine
	for i, row := range rows {
		if i == 0 && row[0] == medicineHeader[0] {
			continue
		}
		m, err := parseMedicineRow(row)
		if err != nil {
			return nil, fmt.Errorf("medicines.csv line %d: %w", i+1, err)
		}
		meds = append(meds, m)
	}
	return meds, nil
}

// SaveMedicines writes medicines atomically, keeping the previous file
// as medicines.csv.bak.
func (c *CSV) SaveMedicines(meds []models.Medicine) error {
	return c.writeFile(c.MedicinesPath(), func(w *csv.Writer) error {
		if err := w.Write(medicineHeader); err != nil {
			return err
		}
		for _, m := range meds {
			if err := w.Write(medicineRow(m)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFile writes through a temp file in the same directory, then
// rotates current -> .bak and temp -> current.
func (c *CSV) writeFile(path string, write func(*csv.Writer) error) error {
	tmp, err := os.CreateTemp(c.dir, ".vitals-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to rotate backup: %w", err)
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func restoreBackup(path string) error {
	bak := path + ".bak"
	if _, err := os.Stat(bak); err != nil {
		return fmt.Errorf("no backup to restore: %w", err)
	}

	stash := path + ".restore-tmp"
	hadCurrent := true
	if err := os.Rename(path, stash); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stash current file: %w", err)
		}
		hadCurrent = false
	}
	if err := os.Rename(bak, path); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	if hadCurrent {
		if err := os.Rename(stash, bak); err != nil {
			return fmt.Errorf("failed to keep previous file as backup: %w", err)
		}
	}
	return nil
}

// parseStoredTime accepts the native layout plus the minute- and
// day-resolution forms found in hand-edited or legacy files.
func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func recordRow(rec models.Record) []string {
	row := []string{rec.RecordedAt.Format(TimeLayout), "", "", "", ""}
	if rec.Systolic != nil {
		row[1] = strconv.Itoa(*rec.Systolic)
	}
	if rec.Diastolic != nil {
		row[2] = strconv.Itoa(*rec.Diastolic)
	}
	if rec.Pulse != nil {
		row[3] = strconv.Itoa(*rec.Pulse)
	}
	if rec.Glucose != nil {
		row[4] = strconv.FormatFloat(*rec.Glucose, 'f', 1, 64)
	}
	return row
}

func parseRecordRow(row []string) (models.Record, error) {
	if len(row) != len(recordHeader) {
		return models.Record{}, fmt.Errorf("expected %d fields, got %d", len(recordHeader), len(row))
	}

	at, err := parseStoredTime(row[0])
	if err != nil {
		return models.Record{}, fmt.Errorf("bad datetime %q", row[0])
	}

	rec := models.Record{RecordedAt: at}
	if row[1] != "" {
		v, err := strconv.Atoi(row[1])
		if err != nil {
			return models.Record{}, fmt.Errorf("bad sys %q", row[1])
		}
		rec.Systolic = &v
	}
	if row[2] != "" {
		v, err := strconv.Atoi(row[2])
		if err != nil {
			return models.Record{}, fmt.Errorf("bad dia %q", row[2])
		}
		rec.Diastolic = &v
	}
	if row[3] != "" {
		v, err := strconv.Atoi(row[3])
		if err != nil {
			return models.Record{}, fmt.Errorf("bad pulse %q", row[3])
		}
		rec.Pulse = &v
	}
	if row[4] != "" {
		v, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return models.Record{}, fmt.Errorf("bad glucose %q", row[4])
		}
		v = models.RoundGlucose(v)
		rec.Glucose = &v
	}
	return rec, nil
}

func medicineRow(m models.Medicine) []string {
	row := []string{
		m.ID.String(),
		m.Name,
		m.Purpose,
		strconv.FormatFloat(m.Dose, 'f', -1, 64),
		m.Units,
	}
	for _, slot := range models.DoseSlots {
		row = append(row, strconv.Itoa(m.Times[slot]))
	}
	return row
}

func parseMedicineRow(row []string) (models.Medicine, error) {
	if len(row) != len(medicineHeader) {
		return models.Medicine{}, fmt.Errorf("expected %d fields, got %d", len(medicineHeader), len(row))
	}

	id, err := uuid.Parse(row[0])
	if err != nil {
		return models.Medicine{}, fmt.Errorf("bad id %q", row[0])
	}
	dose, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("bad dose %q", row[3])
	}

	m := models.Medicine{
		ID:      id,
		Name:    row[1],
		Purpose: row[2],
		Dose:    dose,
		Units:   row[4],
		Times:   make(map[string]int, len(models.DoseSlots)),
	}
	for i, slot := range models.DoseSlots {
		n, err := strconv.Atoi(row[5+i])
		if err != nil {
			return models.Medicine{}, fmt.Errorf("bad %s count %q", slot, row[5+i])
		}
		if n != 0 {
			m.Times[slot] = n
		}
	}
	return m, nil
}
