// ABOUTME: CLI commands for exporting and importing vitals data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportSince   string
	exportColumns string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export vitals data",
	Long: `Export vitals data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export grouped by day (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include records since this date (markdown only)
  --columns      Comma-separated measurements to keep (markdown only)

EXAMPLES:

  vitals export json                         # Export all data as JSON
  vitals export json -o backup.json          # Save to file
  vitals export yaml                         # Day-grouped YAML
  vitals export markdown --since 2024-01-01  # Markdown from 2024 onward
  vitals export markdown --columns glucose   # Glucose table only`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = files.ExportJSON()
		case "yaml":
			data, err = files.ExportYAML()
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.Parse("2006-01-02", exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var columns []string
			if exportColumns != "" {
				columns = strings.Split(exportColumns, ",")
			}
			data, err = files.ExportMarkdown(since, columns)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import vitals data from JSON",
	Long: `Import records and medicines from a JSON backup file.

Records whose timestamp already exists are skipped, as are medicines
whose name already exists. The result reports both counts.

EXAMPLES:

  vitals import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		imported, skipped, err := files.ImportJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d entries from %s", imported, filename)
		if skipped > 0 {
			fmt.Printf("  %d duplicate(s) skipped\n", skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include records since date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportColumns, "columns", "", "comma-separated measurements to keep (markdown only)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
