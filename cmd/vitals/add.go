// ABOUTME: CLI command for adding vital-sign records.
// ABOUTME: Handles the combined --bp flag and per-measurement flags.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/spf13/cobra"
)

var (
	addAt      string
	addBP      string
	addSys     int
	addDia     int
	addPulse   int
	addGlucose float64
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Add a vital-signs record",
	Long: `Add one record holding whatever was measured at one moment.

A record needs at least one measurement. Timestamps resolve to the
minute; --at defaults to now. Adding a second record at the same minute
is rejected: edit the existing one instead.

Examples:
  vitals add --bp 128/83 --pulse 71
  vitals add --sys 128 --dia 83
  vitals add --glucose 5.8 --at "2024-12-14 07:00"
  vitals add --bp 135/85 --glucose 6.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			at = t
		}

		rec := models.NewRecord(at)

		if addBP != "" {
			sys, dia, err := parseBP(addBP)
			if err != nil {
				return err
			}
			rec.WithSystolic(sys).WithDiastolic(dia)
		}
		if cmd.Flags().Changed("sys") {
			rec.WithSystolic(addSys)
		}
		if cmd.Flags().Changed("dia") {
			rec.WithDiastolic(addDia)
		}
		if cmd.Flags().Changed("pulse") {
			rec.WithPulse(addPulse)
		}
		if cmd.Flags().Changed("glucose") {
			rec.WithGlucose(addGlucose)
		}

		pos, err := store.Add(*rec)
		if err != nil {
			return err
		}

		if err := saveRecords(); err != nil {
			return err
		}

		added, err := store.Record(pos)
		if err != nil {
			return err
		}

		color.Green("✓ Added record")
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(added.RecordedAt.Format(timeLayout)),
			added.Summary())

		return nil
	},
}

// parseBP splits a combined "SYS/DIA" value.
func parseBP(s string) (int, int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid blood pressure %q (use SYS/DIA, e.g. 128/83)", s)
	}
	sys, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid systolic value: %s", parts[0])
	}
	dia, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid diastolic value: %s", parts[1])
	}
	return sys, dia, nil
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM, default now)")
	addCmd.Flags().StringVar(&addBP, "bp", "", "blood pressure as SYS/DIA (e.g. 128/83)")
	addCmd.Flags().IntVar(&addSys, "sys", 0, "systolic pressure (mmHg)")
	addCmd.Flags().IntVar(&addDia, "dia", 0, "diastolic pressure (mmHg)")
	addCmd.Flags().IntVar(&addPulse, "pulse", 0, "pulse (bpm)")
	addCmd.Flags().Float64Var(&addGlucose, "glucose", 0, "blood glucose (mmol/L)")
	rootCmd.AddCommand(addCmd)
}
