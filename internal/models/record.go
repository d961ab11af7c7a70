// ABOUTME: Record model for vital-sign measurements.
// ABOUTME: One timestamped row of optional blood pressure, pulse, and glucose values.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Record is a single vital-signs reading. Every measurement field is
// optional, but a usable record carries at least one; the timestamp
// identifies the record and must be unique within a store.
type Record struct {
	RecordedAt time.Time
	Systolic   *int     // mmHg
	Diastolic  *int     // mmHg
	Pulse      *int     // bpm
	Glucose    *float64 // mmol/L, one decimal place
}

// NewRecord creates a record at the given timestamp with no measurements.
// Timestamps are truncated to the minute, the resolution records are
// displayed and matched at.
func NewRecord(at time.Time) *Record {
	return &Record{RecordedAt: at.Truncate(time.Minute)}
}

// WithSystolic sets the systolic blood pressure in mmHg.
func (r *Record) WithSystolic(v int) *Record {
	r.Systolic = &v
	return r
}

// WithDiastolic sets the diastolic blood pressure in mmHg.
func (r *Record) WithDiastolic(v int) *Record {
	r.Diastolic = &v
	return r
}

// WithPulse sets the pulse in beats per minute.
func (r *Record) WithPulse(v int) *Record {
	r.Pulse = &v
	return r
}

// WithGlucose sets the blood glucose in mmol/L, rounded to one decimal.
func (r *Record) WithGlucose(v float64) *Record {
	rounded := RoundGlucose(v)
	r.Glucose = &rounded
	return r
}

// RoundGlucose normalizes a glucose reading to one decimal place.
func RoundGlucose(v float64) float64 {
	return math.Round(v*10) / 10
}

// IsEmpty reports whether the record carries no measurement values.
func (r *Record) IsEmpty() bool {
	return r.Systolic == nil && r.Diastolic == nil && r.Pulse == nil && r.Glucose == nil
}

// Clone returns a deep copy. The pointer fields are duplicated so the
// copy never aliases the original's measurements.
func (r Record) Clone() Record {
	out := Record{RecordedAt: r.RecordedAt}
	if r.Systolic != nil {
		v := *r.Systolic
		out.Systolic = &v
	}
	if r.Diastolic != nil {
		v := *r.Diastolic
		out.Diastolic = &v
	}
	if r.Pulse != nil {
		v := *r.Pulse
		out.Pulse = &v
	}
	if r.Glucose != nil {
		v := *r.Glucose
		out.Glucose = &v
	}
	return out
}

// Summary renders the record's measurements as a short display string,
// e.g. "128/83 mmHg, 71 bpm, 5.8 mmol/L".
func (r Record) Summary() string {
	var parts []string
	switch {
	case r.Systolic != nil && r.Diastolic != nil:
		parts = append(parts, fmt.Sprintf("%d/%d mmHg", *r.Systolic, *r.Diastolic))
	case r.Systolic != nil:
		parts = append(parts, fmt.Sprintf("%d/- mmHg", *r.Systolic))
	case r.Diastolic != nil:
		parts = append(parts, fmt.Sprintf("-/%d mmHg", *r.Diastolic))
	}
	if r.Pulse != nil {
		parts = append(parts, fmt.Sprintf("%d bpm", *r.Pulse))
	}
	if r.Glucose != nil {
		parts = append(parts, fmt.Sprintf("%.1f mmol/L", *r.Glucose))
	}
	if len(parts) == 0 {
		return "no measurements"
	}
	return strings.Join(parts, ", ")
}
