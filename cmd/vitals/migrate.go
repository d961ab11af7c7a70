// ABOUTME: CLI command for importing records from an external CSV file.
// ABOUTME: One-time migration tool for bringing readings in from other trackers.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Import records from a CSV file",
	Long: `Import records from a CSV file produced by another tracker or an
older version of this tool.

The file must use the same column layout as the records file:

  timestamp,systolic,diastolic,pulse,glucose

Rows that duplicate an existing timestamp, carry no measurements, or
fall outside the plausible ranges are skipped; everything else is added
to your records. Malformed rows abort the migration.

USAGE:

  vitals migrate old-readings.csv --dry-run   # Preview what would be imported
  vitals migrate old-readings.csv             # Perform the import

The records file keeps a one-level backup, so 'vitals undo' reverts the
migration if it goes wrong.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := storage.ReadRecordsFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		imported := 0
		skipped := 0
		for _, rec := range records {
			_, err := store.Add(rec)
			switch {
			case err == nil:
				imported++
			case errors.Is(err, vitals.ErrDuplicate),
				errors.Is(err, vitals.ErrEmptyRecord),
				errors.Is(err, vitals.ErrOutOfRange):
				skipped++
			default:
				return fmt.Errorf("failed to import record: %w", err)
			}
		}

		if migrateDryRun {
			color.Yellow("Dry run - nothing saved")
			fmt.Printf("Would import %d record(s), skipping %d\n", imported, skipped)
			return nil
		}

		if err := saveRecords(); err != nil {
			return err
		}

		color.Green("✓ Imported %d record(s) from %s", imported, args[0])
		if skipped > 0 {
			fmt.Printf("  %d row(s) skipped\n", skipped)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview the import without saving")
	rootCmd.AddCommand(migrateCmd)
}
