// ABOUTME: CLI command for finding a record by date or exact timestamp.
// ABOUTME: Prints the matched position and its measurements.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var searchExact bool

var searchCmd = &cobra.Command{
	Use:   "search <date>",
	Short: "Find a record by date",
	Long: `Find a record by date, or by exact timestamp with --exact.

A date search matches any record on that day; when a day holds several
records you get one of them, so follow up with 'vitals list --on' for
the full day. An exact search matches the full timestamp to the minute.

EXAMPLES:

  vitals search 2024-01-05                  # Any record that day
  vitals search "2024-01-05 08:00" --exact  # Exactly this minute`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseTime(args[0])
		if err != nil {
			return fmt.Errorf("invalid date: %s", args[0])
		}

		match := vitals.MatchDate
		if searchExact {
			match = vitals.MatchExact
		}

		pos, err := store.SearchDate(at, match)
		if err != nil {
			return err
		}

		rec, err := store.Record(pos)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s  %s\n",
			faint.Sprintf("#%-3d", pos),
			faint.Sprint(rec.RecordedAt.Format(timeLayout)),
			rec.Summary())

		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "match the full timestamp, not just the date")
	rootCmd.AddCommand(searchCmd)
}
