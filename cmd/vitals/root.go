// ABOUTME: Root Cobra command for vitals CLI.
// ABOUTME: Loads config and data in PersistentPreRunE and shares the session.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/medication"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

// Session state shared by the commands. PersistentPreRunE fills these
// once per invocation.
var (
	cfg     *config.Config
	files   *storage.CSV
	store   *vitals.Store
	cabinet *medication.Cabinet
)

var rootCmd = &cobra.Command{
	Use:     "vitals",
	Short:   "Personal vital-signs tracker",
	Version: "1.0.0",
	Long: `Vitals is a CLI tool for tracking blood pressure, pulse, and blood glucose.

QUICK START:

  $ vitals add --bp 128/83 --pulse 71       # Log blood pressure and pulse
  $ vitals add --glucose 5.8                # Log blood glucose (mmol/L)
  $ vitals list                             # See every record
  $ vitals list --last 7                    # See the last week of readings
  $ vitals chart glucose                    # Render a glucose chart

RECORDS:

  One record holds everything measured at one minute: systolic/diastolic
  pressure (mmHg), pulse (bpm), and glucose (mmol/L). Values outside
  plausible ranges are rejected; edit or remove by timestamp.

  $ vitals list --on 2024-01-05             # All readings that day
  $ vitals list --on 2024-01-05 --span month
  $ vitals list --columns bp                # Only blood pressure columns
  $ vitals edit "2024-01-05 08:00" --pulse 68
  $ vitals remove "2024-01-05 08:00"
  $ vitals undo                             # Restore the previous save

MEDICINES:

  $ vitals med add metformin --dose 500 --units mg --times BB=1,BD=1
  $ vitals med list
  $ vitals med search met

CHARTS:

  $ vitals chart bp                         # Pressure + pulse, guideline rules
  $ vitals chart glucose                    # Series with 3-reading rolling mean
  $ vitals chart glucose-hist               # Readings per glucose band

MCP INTEGRATION:

  Run 'vitals mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "vitals": { "command": "vitals", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Records live in ~/.local/share/vitals/vitals.csv, medicines in
  medicines.csv next to it. Every save keeps the previous file as .bak,
  which is what 'vitals undo' restores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip data loading for commands that don't touch it
		switch cmd.Name() {
		case "version", "help", "install-skill":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		files, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		// undo swaps the files on disk; don't parse them first.
		if cmd.Name() == "undo" {
			return nil
		}

		records, err := files.LoadRecords()
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		store, err = vitals.NewStore(cfg.EngineConfig(), records)
		if err != nil {
			return fmt.Errorf("failed to index records: %w", err)
		}

		meds, err := files.LoadMedicines()
		if err != nil {
			return fmt.Errorf("failed to load medicines: %w", err)
		}
		cabinet, err = medication.NewCabinet(meds)
		if err != nil {
			return fmt.Errorf("failed to index medicines: %w", err)
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func saveRecords() error {
	if err := files.SaveRecords(store.Records()); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

func saveMedicines() error {
	if err := files.SaveMedicines(cabinet.List()); err != nil {
		return fmt.Errorf("failed to save medicines: %w", err)
	}
	return nil
}

// confirm asks a yes/no question on stdin. Declining is not a failure;
// it comes back as ErrNoSelection for the caller to handle.
func confirm(prompt string) error {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		return vitals.ErrNoSelection
	}
	return nil
}
