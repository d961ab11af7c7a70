// ABOUTME: Blood pressure chart: systolic/diastolic series with pulse on a twin axis.
// ABOUTME: Dashed rules mark the hypertension and tachycardia guideline values.
package plot

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/harperreed/vitals/internal/models"
)

const (
	systolicGuide    = 150
	diastolicGuide   = 90
	tachycardiaGuide = 90

	bpAxisMax    = 300
	pulseAxisMax = 200
)

// BloodPressure renders a PNG time-series chart of systolic and
// diastolic pressure, with pulse drawn against a secondary 0-200 axis.
// Records without the relevant measurement are skipped per series;
// rendering fails only when no record carries any of the three.
func BloodPressure(w io.Writer, records []models.Record, opts Options) error {
	opts = opts.withDefaults("Blood Pressure")

	sysTimes, sysValues := intSeries(records, func(r models.Record) *int { return r.Systolic })
	diaTimes, diaValues := intSeries(records, func(r models.Record) *int { return r.Diastolic })
	pulseTimes, pulseValues := intSeries(records, func(r models.Record) *int { return r.Pulse })

	start, end, err := timeSpan(sysTimes, diaTimes, pulseTimes)
	if err != nil {
		return fmt.Errorf("no blood pressure or pulse readings to chart")
	}

	var series []chart.Series
	if len(sysTimes) > 0 {
		t, v := padSeries(sysTimes, sysValues)
		series = append(series, chart.TimeSeries{
			Name: "Systolic", XValues: t, YValues: v, Style: lineStyle(colorSystolic),
		})
	}
	if len(diaTimes) > 0 {
		t, v := padSeries(diaTimes, diaValues)
		series = append(series, chart.TimeSeries{
			Name: "Diastolic", XValues: t, YValues: v, Style: lineStyle(colorDiastolic),
		})
	}
	if len(pulseTimes) > 0 {
		t, v := padSeries(pulseTimes, pulseValues)
		series = append(series, chart.TimeSeries{
			Name:    "Pulse",
			XValues: t,
			YValues: v,
			YAxis:   chart.YAxisSecondary,
			Style:   lineStyle(colorPulse),
		})
	}

	series = append(series,
		guideline(fmt.Sprintf("Systolic %d", systolicGuide), systolicGuide, start, end, colorGuide),
		guideline(fmt.Sprintf("Diastolic %d", diastolicGuide), diastolicGuide, start, end, colorGuide),
	)
	if len(pulseTimes) > 0 {
		tachy := guideline(fmt.Sprintf("Tachycardia %d", tachycardiaGuide), tachycardiaGuide, start, end, colorBand)
		tachy.YAxis = chart.YAxisSecondary
		series = append(series, tachy)
	}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 32},
		},
		YAxis: chart.YAxis{
			Name:  "mmHg",
			Range: &chart.ContinuousRange{Min: 0, Max: bpAxisMax},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "bpm",
			Range: &chart.ContinuousRange{Min: 0, Max: pulseAxisMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render blood pressure chart: %w", err)
	}
	return nil
}
