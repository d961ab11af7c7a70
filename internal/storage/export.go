// ABOUTME: Export and import of the full data set.
// ABOUTME: JSON and YAML round-trip; Markdown is for reading, not reimporting.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/vitals/internal/models"
)

// ExportData is the portable envelope written by every export format.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Records    []ExportRecord   `json:"records" yaml:"records"`
	Medicines  []ExportMedicine `json:"medicines" yaml:"medicines"`
}

// ExportRecord is the wire form of a record. Timestamps are rendered
// with TimeLayout so exports stay readable and diffable.
type ExportRecord struct {
	RecordedAt string   `json:"recorded_at" yaml:"recorded_at"`
	Systolic   *int     `json:"systolic,omitempty" yaml:"systolic,omitempty"`
	Diastolic  *int     `json:"diastolic,omitempty" yaml:"diastolic,omitempty"`
	Pulse      *int     `json:"pulse,omitempty" yaml:"pulse,omitempty"`
	Glucose    *float64 `json:"glucose,omitempty" yaml:"glucose,omitempty"`
}

// ExportMedicine is the wire form of a medicine.
type ExportMedicine struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Purpose string         `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Dose    float64        `json:"dose" yaml:"dose"`
	Units   string         `json:"units" yaml:"units"`
	Times   map[string]int `json:"times,omitempty" yaml:"times,omitempty"`
}

// GetAllData loads everything from disk into an export envelope.
func (c *CSV) GetAllData() (*ExportData, error) {
	records, err := c.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	meds, err := c.LoadMedicines()
	if err != nil {
		return nil, fmt.Errorf("failed to load medicines: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "vitals",
	}
	for _, rec := range records {
		data.Records = append(data.Records, exportRecord(rec))
	}
	for _, m := range meds {
		data.Medicines = append(data.Medicines, ExportMedicine{
			ID:      m.ID.String(),
			Name:    m.Name,
			Purpose: m.Purpose,
			Dose:    m.Dose,
			Units:   m.Units,
			Times:   m.Times,
		})
	}
	return data, nil
}

// ExportJSON renders the full data set as indented JSON.
func (c *CSV) ExportJSON() ([]byte, error) {
	data, err := c.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// yamlExport groups records by day, which reads better than one flat
// list when scanning a file by eye.
type yamlExport struct {
	Version    string                    `yaml:"version"`
	ExportedAt time.Time                 `yaml:"exported_at"`
	Tool       string                    `yaml:"tool"`
	Days       map[string][]ExportRecord `yaml:"days"`
	Medicines  []ExportMedicine          `yaml:"medicines,omitempty"`
}

// ExportYAML renders the data set as YAML with records grouped by day.
func (c *CSV) ExportYAML() ([]byte, error) {
	data, err := c.GetAllData()
	if err != nil {
		return nil, err
	}

	out := yamlExport{
		Version:    data.Version,
		ExportedAt: data.ExportedAt,
		Tool:       data.Tool,
		Days:       make(map[string][]ExportRecord),
		Medicines:  data.Medicines,
	}
	for _, rec := range data.Records {
		day := rec.RecordedAt
		if len(day) >= 10 {
			day = day[:10]
		}
		out.Days[day] = append(out.Days[day], rec)
	}
	return yaml.Marshal(out)
}

// ExportMarkdown renders the data set as Markdown tables. A non-nil
// since drops older records; columns narrows the measurement columns
// (nil means all).
func (c *CSV) ExportMarkdown(since *time.Time, columns []string) ([]byte, error) {
	records, err := c.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	meds, err := c.LoadMedicines()
	if err != nil {
		return nil, fmt.Errorf("failed to load medicines: %w", err)
	}

	keep := map[string]bool{"sys": true, "dia": true, "pulse": true, "glucose": true}
	if len(columns) > 0 {
		keep = make(map[string]bool, len(columns))
		for _, col := range columns {
			keep[col] = true
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})

	var b strings.Builder
	b.WriteString("# Vitals Export\n\n")
	b.WriteString(fmt.Sprintf("Exported: %s\n\n", time.Now().UTC().Format(TimeLayout)))

	b.WriteString("## Records\n\n")
	wrote := false
	for _, rec := range records {
		if since != nil && rec.RecordedAt.Before(*since) {
			continue
		}
		if !wrote {
			b.WriteString("| Date | Time |")
			if keep["sys"] {
				b.WriteString(" Sys |")
			}
			if keep["dia"] {
				b.WriteString(" Dia |")
			}
			if keep["pulse"] {
				b.WriteString(" Pulse |")
			}
			if keep["glucose"] {
				b.WriteString(" Glucose |")
			}
			b.WriteString("\n|------|------|")
			for _, col := range []string{"sys", "dia", "pulse", "glucose"} {
				if keep[col] {
					b.WriteString("-----|")
				}
			}
			b.WriteString("\n")
			wrote = true
		}
		b.WriteString(fmt.Sprintf("| %s | %s |",
			rec.RecordedAt.Format("2006-01-02"), rec.RecordedAt.Format("15:04")))
		if keep["sys"] {
			b.WriteString(" " + intCell(rec.Systolic) + " |")
		}
		if keep["dia"] {
			b.WriteString(" " + intCell(rec.Diastolic) + " |")
		}
		if keep["pulse"] {
			b.WriteString(" " + intCell(rec.Pulse) + " |")
		}
		if keep["glucose"] {
			b.WriteString(" " + glucoseCell(rec.Glucose) + " |")
		}
		b.WriteString("\n")
	}
	if !wrote {
		b.WriteString("No records.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Medicines\n\n")
	if len(meds) == 0 {
		b.WriteString("No medicines.\n")
	} else {
		models.SortMedicines(meds)
		b.WriteString("| Name | Purpose | Dose | Schedule |\n")
		b.WriteString("|------|---------|------|----------|\n")
		for _, m := range meds {
			b.WriteString(fmt.Sprintf("| %s | %s | %g %s | %s |\n",
				m.Name, m.Purpose, m.Dose, m.Units, m.Schedule()))
		}
	}

	return []byte(b.String()), nil
}

// ImportJSON merges an exported JSON document into the store. Records
// whose timestamp already exists and medicines whose name already
// exists are skipped. Returns (records imported, entries skipped).
func (c *CSV) ImportJSON(data []byte) (int, int, error) {
	var in ExportData
	if err := json.Unmarshal(data, &in); err != nil {
		return 0, 0, fmt.Errorf("failed to parse import data: %w", err)
	}

	records, err := c.LoadRecords()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load records: %w", err)
	}
	meds, err := c.LoadMedicines()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load medicines: %w", err)
	}

	seen := make(map[int64]bool, len(records))
	for _, rec := range records {
		seen[rec.RecordedAt.Unix()] = true
	}
	names := make(map[string]bool, len(meds))
	for _, m := range meds {
		names[m.Name] = true
	}

	imported, skipped := 0, 0
	for _, er := range in.Records {
		rec, err := importRecord(er)
		if err != nil {
			return 0, 0, err
		}
		if seen[rec.RecordedAt.Unix()] {
			skipped++
			continue
		}
		seen[rec.RecordedAt.Unix()] = true
		records = append(records, rec)
		imported++
	}
	for _, em := range in.Medicines {
		m, err := importMedicine(em)
		if err != nil {
			return 0, 0, err
		}
		if names[m.Name] {
			skipped++
			continue
		}
		names[m.Name] = true
		meds = append(meds, m)
		imported++
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	if err := c.SaveRecords(records); err != nil {
		return 0, 0, err
	}
	if err := c.SaveMedicines(meds); err != nil {
		return 0, 0, err
	}
	return imported, skipped, nil
}

func exportRecord(rec models.Record) ExportRecord {
	return ExportRecord{
		RecordedAt: rec.RecordedAt.Format(TimeLayout),
		Systolic:   rec.Systolic,
		Diastolic:  rec.Diastolic,
		Pulse:      rec.Pulse,
		Glucose:    rec.Glucose,
	}
}

func importRecord(in ExportRecord) (models.Record, error) {
	at, err := parseStoredTime(in.RecordedAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("bad record timestamp %q", in.RecordedAt)
	}
	return models.Record{
		RecordedAt: at,
		Systolic:   in.Systolic,
		Diastolic:  in.Diastolic,
		Pulse:      in.Pulse,
		Glucose:    in.Glucose,
	}, nil
}

func importMedicine(in ExportMedicine) (models.Medicine, error) {
	m := models.NewMedicine(in.Name)
	m.Purpose = in.Purpose
	m.Dose = in.Dose
	if in.Units != "" {
		m.Units = in.Units
	}
	m.WithTimes(in.Times)
	return *m, nil
}

func intCell(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func glucoseCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
