// ABOUTME: CLI command for editing the record at an exact timestamp.
// ABOUTME: Sets, clears, or re-dates measurements in one validated step.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var (
	editAt      string
	editSys     int
	editDia     int
	editPulse   int
	editGlucose float64
	editClear   []string
)

var editCmd = &cobra.Command{
	Use:   "edit <datetime>",
	Short: "Edit the record at a timestamp",
	Long: `Edit the record at an exact timestamp (to the minute).

Set new values with the measurement flags, clear measurements with
--clear, or move the record with --at. All changes apply together and
are validated as a whole: if anything is rejected, nothing changes.
A record must keep at least one measurement.

EXAMPLES:

  vitals edit "2024-01-05 08:00" --pulse 68
  vitals edit "2024-01-05 08:00" --sys 130 --dia 85
  vitals edit "2024-01-05 08:00" --clear glucose
  vitals edit "2024-01-05 08:00" --at "2024-01-05 08:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseTime(args[0])
		if err != nil {
			return fmt.Errorf("invalid timestamp: %s", args[0])
		}

		pos, err := store.SearchDate(at, vitals.MatchExact)
		if err != nil {
			return err
		}

		var changes []vitals.Change
		if editAt != "" {
			newAt, err := parseTime(editAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", editAt)
			}
			changes = append(changes, vitals.SetRecordedAt(newAt))
		}
		if cmd.Flags().Changed("sys") {
			changes = append(changes, vitals.SetSystolic(editSys))
		}
		if cmd.Flags().Changed("dia") {
			changes = append(changes, vitals.SetDiastolic(editDia))
		}
		if cmd.Flags().Changed("pulse") {
			changes = append(changes, vitals.SetPulse(editPulse))
		}
		if cmd.Flags().Changed("glucose") {
			changes = append(changes, vitals.SetGlucose(editGlucose))
		}
		for _, field := range editClear {
			switch field {
			case "sys", "systolic":
				changes = append(changes, vitals.ClearSystolic())
			case "dia", "diastolic":
				changes = append(changes, vitals.ClearDiastolic())
			case "pulse":
				changes = append(changes, vitals.ClearPulse())
			case "glucose":
				changes = append(changes, vitals.ClearGlucose())
			default:
				return fmt.Errorf("unknown measurement: %s (use sys, dia, pulse, or glucose)", field)
			}
		}

		if len(changes) == 0 {
			return fmt.Errorf("nothing to change: pass at least one measurement flag, --clear, or --at")
		}

		newPos, err := store.Edit(pos, changes...)
		if err != nil {
			return err
		}

		if err := saveRecords(); err != nil {
			return err
		}

		edited, err := store.Record(newPos)
		if err != nil {
			return err
		}

		color.Green("✓ Updated record")
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(edited.RecordedAt.Format(timeLayout)),
			edited.Summary())

		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editAt, "at", "", "move the record to a new timestamp")
	editCmd.Flags().IntVar(&editSys, "sys", 0, "new systolic pressure (mmHg)")
	editCmd.Flags().IntVar(&editDia, "dia", 0, "new diastolic pressure (mmHg)")
	editCmd.Flags().IntVar(&editPulse, "pulse", 0, "new pulse (bpm)")
	editCmd.Flags().Float64Var(&editGlucose, "glucose", 0, "new blood glucose (mmol/L)")
	editCmd.Flags().StringSliceVar(&editClear, "clear", nil, "measurements to clear (sys, dia, pulse, glucose)")
	rootCmd.AddCommand(editCmd)
}
