// ABOUTME: CLI command for rendering PNG charts of records.
// ABOUTME: Feeds a projected timeframe into the plot package.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/plot"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var (
	chartOn     string
	chartSpan   string
	chartLast   int
	chartBefore string
	chartOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart <bp|glucose|glucose-hist>",
	Short: "Render a PNG chart",
	Long: `Render a PNG chart of your records.

CHARTS:

  bp             Systolic and diastolic series with pulse on a second
                 axis, plus dashed guides at systolic 150, diastolic 90,
                 and tachycardia 90.
  glucose        Glucose series with a rolling mean over the last three
                 readings, plus dashed band boundaries at 6, 10, and 15.
  glucose-hist   Bar chart of readings per glucose band.

TIMEFRAMES:

  The same flags as 'vitals list': --on/--span or --last/--before.
  Without flags the chart covers every record.

OUTPUT:

  By default charts land under the data directory's charts/ folder with
  a timestamped name; use --output to choose a path.

EXAMPLES:

  vitals chart glucose
  vitals chart bp --last 30
  vitals chart glucose --on 2024-01-05 --span month
  vitals chart glucose-hist --output /tmp/bands.png`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bp", "glucose", "glucose-hist"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]

		window, err := selectWindow(chartOn, chartSpan, chartLast, chartBefore)
		if err != nil {
			return err
		}

		preset := vitals.PresetGlucose
		if kind == "bp" {
			preset = vitals.PresetBPAndPulse
		}
		cols, err := store.Preset(preset)
		if err != nil {
			return err
		}

		view, err := store.Project(window, cols)
		if err != nil {
			return err
		}
		if len(view.Rows) == 0 {
			return fmt.Errorf("no records to chart in this timeframe")
		}

		records := make([]models.Record, 0, len(view.Rows))
		for _, row := range view.Rows {
			records = append(records, row.Record)
		}

		output := chartOutput
		if output == "" {
			dir := filepath.Join(files.Dir(), "charts")
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create charts directory: %w", err)
			}
			output = filepath.Join(dir, fmt.Sprintf("%s-%s.png", kind, time.Now().Format("20060102-150405")))
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}

		switch kind {
		case "bp":
			err = plot.BloodPressure(f, records, plot.Options{})
		case "glucose":
			err = plot.Glucose(f, records, plot.Options{})
		case "glucose-hist":
			err = plot.GlucoseHistogram(f, records, plot.Options{})
		default:
			err = fmt.Errorf("unknown chart: %s (use bp, glucose, or glucose-hist)", kind)
		}
		if err != nil {
			f.Close()
			os.Remove(output)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}

		color.Green("✓ Rendered %s chart", kind)
		fmt.Printf("  %s\n", output)

		return nil
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartOn, "on", "", "chart records on a date (YYYY-MM-DD)")
	chartCmd.Flags().StringVar(&chartSpan, "span", "day", "span around the matched record: single, day, or month")
	chartCmd.Flags().IntVarP(&chartLast, "last", "n", 0, "chart the last N records")
	chartCmd.Flags().StringVar(&chartBefore, "before", "", "anchor --last at a date")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output file (default: <data>/charts/<kind>-<time>.png)")
	rootCmd.AddCommand(chartCmd)
}
