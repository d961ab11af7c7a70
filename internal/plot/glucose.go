// ABOUTME: Glucose charts: time series with a rolling mean, and a band histogram.
// ABOUTME: Dashed rules mark the hypo, target, and hyperglycaemia boundaries.
package plot

import (
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/harperreed/vitals/internal/models"
)

const (
	hypoBound   = 6.0
	targetBound = 10.0
	mildBound   = 15.0
	glucoseCeil = 30.0
	rollingSpan = 3
)

// Glucose renders a PNG time-series chart of glucose readings with a
// rolling mean over the last few readings once enough exist.
func Glucose(w io.Writer, records []models.Record, opts Options) error {
	opts = opts.withDefaults("Blood Glucose")

	times, values := floatSeries(records, func(r models.Record) *float64 { return r.Glucose })
	if len(times) == 0 {
		return fmt.Errorf("no glucose readings to chart")
	}

	start, end, err := timeSpan(times)
	if err != nil {
		return fmt.Errorf("no glucose readings to chart")
	}

	readingTimes, readingValues := padSeries(times, values)
	series := []chart.Series{
		chart.TimeSeries{
			Name: "Glucose", XValues: readingTimes, YValues: readingValues, Style: lineStyle(colorGlucose),
		},
	}

	if meanTimes, meanValues := rollingMean(times, values, rollingSpan); len(meanTimes) > 0 {
		meanTimes, meanValues = padSeries(meanTimes, meanValues)
		series = append(series, chart.TimeSeries{
			Name: fmt.Sprintf("Mean of %d", rollingSpan), XValues: meanTimes, YValues: meanValues, Style: lineStyle(colorMean),
		})
	}

	series = append(series,
		guideline(fmt.Sprintf("Hypo < %.0f", hypoBound), hypoBound, start, end, colorGuide),
		guideline(fmt.Sprintf("Target < %.0f", targetBound), targetBound, start, end, colorBand),
		guideline(fmt.Sprintf("Mild hyper < %.0f", mildBound), mildBound, start, end, colorBand),
	)

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 32},
		},
		YAxis: chart.YAxis{
			Name:  "mmol/L",
			Range: &chart.ContinuousRange{Min: 0, Max: glucoseCeil},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render glucose chart: %w", err)
	}
	return nil
}

// GlucoseHistogram renders a PNG bar chart of readings per glucose
// band, labeled with each band's share of the total.
func GlucoseHistogram(w io.Writer, records []models.Record, opts Options) error {
	opts = opts.withDefaults("Glucose Distribution")

	_, values := floatSeries(records, func(r models.Record) *float64 { return r.Glucose })
	if len(values) == 0 {
		return fmt.Errorf("no glucose readings to chart")
	}

	var hypo, target, mild, severe int
	for _, v := range values {
		switch {
		case v < hypoBound:
			hypo++
		case v < targetBound:
			target++
		case v < mildBound:
			mild++
		default:
			severe++
		}
	}

	total := float64(len(values))
	pct := func(n int) float64 { return 100 * float64(n) / total }

	ch := chart.BarChart{
		Title:    opts.Title,
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16},
		},
		Bars: []chart.Value{
			{Label: fmt.Sprintf("< %.0f (%.0f%%)", hypoBound, pct(hypo)), Value: float64(hypo)},
			{Label: fmt.Sprintf("%.0f-%.0f (%.0f%%)", hypoBound, targetBound, pct(target)), Value: float64(target)},
			{Label: fmt.Sprintf("%.0f-%.0f (%.0f%%)", targetBound, mildBound, pct(mild)), Value: float64(mild)},
			{Label: fmt.Sprintf("> %.0f (%.0f%%)", mildBound, pct(severe)), Value: float64(severe)},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render glucose histogram: %w", err)
	}
	return nil
}

// rollingMean computes the trailing mean over the last span readings,
// defined once span readings exist. The x-value is the time of the
// newest reading in each window.
func rollingMean(times []time.Time, values []float64, span int) ([]time.Time, []float64) {
	if len(values) < span {
		return nil, nil
	}
	outTimes := make([]time.Time, 0, len(values)-span+1)
	outValues := make([]float64, 0, len(values)-span+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= span {
			sum -= values[i-span]
		}
		if i >= span-1 {
			outTimes = append(outTimes, times[i])
			outValues = append(outValues, sum/float64(span))
		}
	}
	return outTimes, outValues
}
