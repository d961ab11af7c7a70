// ABOUTME: CLI command for removing the record at an exact timestamp.
// ABOUTME: Confirms before removal unless --yes is passed.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:     "remove <datetime>",
	Aliases: []string{"rm", "del"},
	Short:   "Remove the record at a timestamp",
	Long: `Remove the record at an exact timestamp (to the minute).

The record is shown and you are asked to confirm. Declining leaves
everything untouched. The previous on-disk state stays available to
'vitals undo' until the next save.

EXAMPLES:

  vitals remove "2024-01-05 08:00"
  vitals rm "2024-01-05 08:00" --yes`,
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

		rec, err := store.Record(pos)
		if err != nil {
			return err
		}

		if !removeYes {
			fmt.Printf("%s  %s\n", rec.RecordedAt.Format(timeLayout), rec.Summary())
			if err := confirm("Remove this record?"); err != nil {
				if errors.Is(err, vitals.ErrNoSelection) {
					fmt.Println("The record will not be removed.")
					return nil
				}
				return err
			}
		}

		removed, err := store.Remove(pos)
		if err != nil {
			return err
		}

		if err := saveRecords(); err != nil {
			return err
		}

		color.Yellow("✗ Removed record")
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(removed.RecordedAt.Format(timeLayout)),
			removed.Summary())

		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}
