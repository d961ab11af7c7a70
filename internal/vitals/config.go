// ABOUTME: Engine configuration: plausible measurement ranges and column presets.
// ABOUTME: Passed to NewStore so deployments and tests can tune both.
package vitals

import (
	"fmt"

	"github.com/harperreed/vitals/internal/models"
)

// Range is an exclusive plausible-value interval for integer measurements.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies strictly inside the range.
func (r Range) Contains(v int) bool {
	return v > r.Min && v < r.Max
}

// RangeF is the floating-point counterpart used for glucose.
type RangeF struct {
	Min float64
	Max float64
}

// Contains reports whether v lies strictly inside the range.
func (r RangeF) Contains(v float64) bool {
	return v > r.Min && v < r.Max
}

// Ranges groups the plausible intervals for each measurement.
type Ranges struct {
	Systolic  Range
	Diastolic Range
	Pulse     Range
	Glucose   RangeF
}

// Validate checks every present measurement against its plausible range.
func (rs Ranges) Validate(rec models.Record) error {
	if rec.Systolic != nil && !rs.Systolic.Contains(*rec.Systolic) {
		return fmt.Errorf("%w: systolic %d not in (%d, %d)",
			ErrOutOfRange, *rec.Systolic, rs.Systolic.Min, rs.Systolic.Max)
	}
	if rec.Diastolic != nil && !rs.Diastolic.Contains(*rec.Diastolic) {
		return fmt.Errorf("%w: diastolic %d not in (%d, %d)",
			ErrOutOfRange, *rec.Diastolic, rs.Diastolic.Min, rs.Diastolic.Max)
	}
	if rec.Pulse != nil && !rs.Pulse.Contains(*rec.Pulse) {
		return fmt.Errorf("%w: pulse %d not in (%d, %d)",
			ErrOutOfRange, *rec.Pulse, rs.Pulse.Min, rs.Pulse.Max)
	}
	if rec.Glucose != nil && !rs.Glucose.Contains(*rec.Glucose) {
		return fmt.Errorf("%w: glucose %.1f not in (%.0f, %.0f)",
			ErrOutOfRange, *rec.Glucose, rs.Glucose.Min, rs.Glucose.Max)
	}
	return nil
}

// Config parameterizes a Store.
type Config struct {
	// Ranges are the plausible intervals enforced on add and edit.
	Ranges Ranges

	// Presets maps preset names to the column subsets they select.
	Presets map[string][]Column

	// SearchStepLimit bounds the probes a single search may make before
	// it reports ErrSearchLimit.
	SearchStepLimit int
}

// DefaultConfig returns the standard plausible ranges and column presets.
func DefaultConfig() Config {
	return Config{
		Ranges: Ranges{
			Systolic:  Range{Min: 20, Max: 300},
			Diastolic: Range{Min: 20, Max: 300},
			Pulse:     Range{Min: 10, Max: 200},
			Glucose:   RangeF{Min: 0, Max: 30},
		},
		Presets: map[string][]Column{
			PresetAll:        {ColSystolic, ColDiastolic, ColPulse, ColGlucose},
			PresetGlucose:    {ColGlucose},
			PresetBP:         {ColSystolic, ColDiastolic},
			PresetPulse:      {ColPulse},
			PresetBPAndPulse: {ColSystolic, ColDiastolic, ColPulse},
		},
		SearchStepLimit: 1000,
	}
}
