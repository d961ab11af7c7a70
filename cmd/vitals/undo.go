// ABOUTME: CLI command for restoring the previous on-disk records.
// ABOUTME: Swaps vitals.csv with its .bak sibling.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var undoYes bool

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the previous records file",
	Long: `Restore the records file saved before the most recent change.

Every save keeps the previous vitals.csv as vitals.csv.bak; undo swaps
the two. Running undo twice therefore brings the undone change back.

EXAMPLES:

  vitals undo          # Confirm, then restore the previous save
  vitals undo --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !undoYes {
			if err := confirm("Restore the previous records file?"); err != nil {
				if errors.Is(err, vitals.ErrNoSelection) {
					fmt.Println("Nothing restored.")
					return nil
				}
				return err
			}
		}

		if err := files.RestoreRecordsBackup(); err != nil {
			return fmt.Errorf("failed to restore backup: %w", err)
		}

		records, err := files.LoadRecords()
		if err != nil {
			return fmt.Errorf("restored file is unreadable: %w", err)
		}

		color.Green("✓ Restored previous records")
		fmt.Printf("  %d record(s) on disk\n", len(records))

		return nil
	},
}

func init() {
	undoCmd.Flags().BoolVarP(&undoYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(undoCmd)
}
