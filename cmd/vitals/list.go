// ABOUTME: CLI command for listing vital-sign records.
// ABOUTME: Combines timeframe selection with column presets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var (
	listOn      string
	listSpan    string
	listLast    int
	listBefore  string
	listColumns string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List vital-sign records",
	Long: `List records from your vitals log.

OUTPUT FORMAT:

  Each line shows: #POSITION  TIMESTAMP  MEASUREMENTS

  The position is stable until the store changes and can be useful when
  reading charts or exports side by side.

TIMEFRAMES:

  --on DATE            records matching a date
  --span single        just the matched record
  --span day           every record that day (default with --on)
  --span month         every record in that month of the year
  --last N             the last N records
  --before DATE        anchor --last at a date instead of the newest record

  Asking for more records than exist is not an error; you get them all
  plus a note.

COLUMNS:

  --columns all        every measurement (default)
  --columns glucose    glucose only
  --columns bp         systolic/diastolic only
  --columns pulse      pulse only
  --columns bp+pulse   pressure and pulse

  Rows with none of the selected measurements are dropped.

EXAMPLES:

  vitals list                          # Everything
  vitals list --on 2024-01-05          # One day
  vitals list --on 2024-01-05 --span month
  vitals list --last 7                 # Last seven records
  vitals list --last 7 --before 2024-02-01
  vitals list --columns glucose        # Glucose log only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := selectWindow(listOn, listSpan, listLast, listBefore)
		if err != nil {
			return err
		}

		cols, err := store.Preset(listColumns)
		if err != nil {
			return err
		}

		view, err := store.Project(window, cols)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		if window.Notice != "" {
			faint.Println(window.Notice)
		}

		if len(view.Rows) == 0 {
			fmt.Println("No records found.")
			return nil
		}

		for _, row := range view.Rows {
			fmt.Printf("%s %s  %s\n",
				faint.Sprintf("#%-3d", row.Position),
				faint.Sprint(row.Record.RecordedAt.Format(timeLayout)),
				row.Record.Summary())
		}

		return nil
	},
}

// selectWindow turns the shared timeframe flags into a Window. Used by
// list and chart.
func selectWindow(on, span string, last int, before string) (vitals.Window, error) {
	switch {
	case on != "":
		at, err := parseTime(on)
		if err != nil {
			return vitals.Window{}, fmt.Errorf("invalid date: %s", on)
		}
		pos, err := store.SearchDate(at, vitals.MatchDate)
		if err != nil {
			return vitals.Window{}, err
		}
		switch span {
		case "single":
			return store.SelectSingle(pos)
		case "", "day":
			return store.SelectSpan(pos, vitals.Day)
		case "month":
			return store.SelectSpan(pos, vitals.Month)
		default:
			return vitals.Window{}, fmt.Errorf("unknown span: %s (use single, day, or month)", span)
		}

	case last > 0:
		anchor, err := store.Latest()
		if err != nil {
			return vitals.Window{}, err
		}
		if before != "" {
			at, perr := parseTime(before)
			if perr != nil {
				return vitals.Window{}, fmt.Errorf("invalid date: %s", before)
			}
			anchor, err = store.SearchDate(at, vitals.MatchDate)
			if err != nil {
				return vitals.Window{}, err
			}
		}
		return store.SelectBefore(anchor, last)

	default:
		return store.SelectAll(), nil
	}
}

func init() {
	listCmd.Flags().StringVar(&listOn, "on", "", "list records on a date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listSpan, "span", "day", "span around the matched record: single, day, or month")
	listCmd.Flags().IntVarP(&listLast, "last", "n", 0, "list the last N records")
	listCmd.Flags().StringVar(&listBefore, "before", "", "anchor --last at a date")
	listCmd.Flags().StringVarP(&listColumns, "columns", "c", "all", "column preset: all, glucose, bp, pulse, bp+pulse")
	rootCmd.AddCommand(listCmd)
}
