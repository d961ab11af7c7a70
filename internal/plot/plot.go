// ABOUTME: Shared plumbing for PNG chart rendering.
// ABOUTME: Series extraction, guideline styling, and sizing defaults.
package plot

import (
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/harperreed/vitals/internal/models"
)

// Options control chart dimensions and title. Zero values fall back to
// sensible defaults.
type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) withDefaults(title string) Options {
	if o.Title == "" {
		o.Title = title
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

var (
	colorSystolic  = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorDiastolic = drawing.Color{R: 255, G: 127, B: 14, A: 255}
	colorPulse     = drawing.Color{R: 44, G: 160, B: 44, A: 255}
	colorGlucose   = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorMean      = drawing.Color{R: 148, G: 103, B: 189, A: 255}
	colorGuide     = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	colorBand      = drawing.Color{R: 127, G: 127, B: 127, A: 255}
)

// intSeries pulls (time, value) pairs for one integer measurement,
// skipping records where it is absent.
func intSeries(records []models.Record, field func(models.Record) *int) ([]time.Time, []float64) {
	var times []time.Time
	var values []float64
	for _, rec := range records {
		if v := field(rec); v != nil {
			times = append(times, rec.RecordedAt)
			values = append(values, float64(*v))
		}
	}
	return times, values
}

// floatSeries is the glucose counterpart of intSeries.
func floatSeries(records []models.Record, field func(models.Record) *float64) ([]time.Time, []float64) {
	var times []time.Time
	var values []float64
	for _, rec := range records {
		if v := field(rec); v != nil {
			times = append(times, rec.RecordedAt)
			values = append(values, *v)
		}
	}
	return times, values
}

// padSeries duplicates a lone point one minute later so the renderer
// always has a drawable X range.
func padSeries(times []time.Time, values []float64) ([]time.Time, []float64) {
	if len(times) == 1 {
		times = append(times, times[0].Add(time.Minute))
		values = append(values, values[0])
	}
	return times, values
}

// timeSpan returns the earliest and latest timestamp across the given
// series, for drawing guidelines edge to edge.
func timeSpan(series ...[]time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	seen := false
	for _, times := range series {
		for _, ts := range times {
			if !seen {
				start, end = ts, ts
				seen = true
				continue
			}
			if ts.Before(start) {
				start = ts
			}
			if ts.After(end) {
				end = ts
			}
		}
	}
	if !seen {
		return time.Time{}, time.Time{}, fmt.Errorf("no values to chart")
	}
	if !end.After(start) {
		end = start.Add(time.Minute)
	}
	return start, end, nil
}

// guideline builds a dashed horizontal rule across [start, end].
func guideline(name string, value float64, start, end time.Time, col drawing.Color) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		XValues: []time.Time{start, end},
		YValues: []float64{value, value},
		Style: chart.Style{
			StrokeColor:     col,
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2.0,
	}
}
