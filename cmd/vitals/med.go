// ABOUTME: CLI commands for the medicine cabinet.
// ABOUTME: Supports add, list, search, edit, and remove subcommands.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/vitals"
	"github.com/spf13/cobra"
)

var (
	medPurpose string
	medDose    float64
	medUnits   string
	medTimes   string
	medNewName string
	medYes     bool
)

var medCmd = &cobra.Command{
	Use:     "med",
	Aliases: []string{"m"},
	Short:   "Manage the medicine cabinet",
	Long: `Track the medicines you take alongside your vital signs.

Each medicine has a name (lowercase letters and spaces), an optional
purpose, a dose with units (g, mg, mcg, units), and a schedule of doses
per day slot:

  BB    before breakfast     AB    after breakfast
  BL    before lunch         AL    after lunch
  BD    before dinner        AD    after dinner
  AAWN  as and when needed

WORKFLOW:

  1. Add a medicine:   vitals med add metformin --dose 500 --units mg --times BB=1,BD=1
  2. See the cabinet:  vitals med list
  3. Adjust a dose:    vitals med edit <id> --dose 850
  4. Stop taking it:   vitals med remove <id>

Edit and remove accept the full ID or any unique prefix of it; 'med
list' shows the first 8 characters.`,
}

var medAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medicine",
	Long: `Add a medicine to the cabinet.

Examples:
  vitals med add metformin --dose 500 --units mg --times BB=1,BD=1
  vitals med add aspirin --purpose "blood thinner" --dose 75 --units mg
  vitals med add insulin --dose 10 --units units --times AAWN=1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		m := models.NewMedicine(name)
		if medPurpose != "" {
			m.WithPurpose(medPurpose)
		}
		if cmd.Flags().Changed("dose") || medUnits != "" {
			units := medUnits
			if units == "" {
				units = m.Units
			}
			m.WithDose(medDose, units)
		}
		if medTimes != "" {
			times, err := parseTimes(medTimes)
			if err != nil {
				return err
			}
			m.WithTimes(times)
		}

		if err := cabinet.Add(*m); err != nil {
			return err
		}

		if err := saveMedicines(); err != nil {
			return err
		}

		color.Green("✓ Added %s", m.Name)
		fmt.Printf("  %s %g %s  %s\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Dose, m.Units, m.Schedule())

		return nil
	},
}

var medListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List medicines",
	RunE: func(cmd *cobra.Command, args []string) error {
		meds := cabinet.List()
		if len(meds) == 0 {
			fmt.Println("No medicines found.")
			return nil
		}

		printMedicines(meds)
		return nil
	},
}

var medSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search medicines by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		positions := cabinet.Find(args[0])
		if len(positions) == 0 {
			fmt.Println("No medicines found.")
			return nil
		}

		meds := make([]models.Medicine, 0, len(positions))
		for _, pos := range positions {
			m, err := cabinet.Get(pos)
			if err != nil {
				return err
			}
			meds = append(meds, m)
		}

		printMedicines(meds)
		return nil
	},
}

var medEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a medicine",
	Long: `Edit a medicine by its ID or ID prefix.

Examples:
  vitals med edit abc12345 --dose 850
  vitals med edit abc1 --times BB=1,BD=2
  vitals med edit abc1 --name "metformin retard"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := cabinet.Resolve(args[0])
		if err != nil {
			return err
		}

		m, err := cabinet.Get(pos)
		if err != nil {
			return err
		}

		if medNewName != "" {
			m.Name = models.NormalizeMedicineName(medNewName)
		}
		if medPurpose != "" {
			m.Purpose = medPurpose
		}
		if cmd.Flags().Changed("dose") {
			m.Dose = medDose
		}
		if medUnits != "" {
			m.Units = medUnits
		}
		if medTimes != "" {
			times, err := parseTimes(medTimes)
			if err != nil {
				return err
			}
			m.Times = times
		}

		if err := cabinet.Replace(pos, m); err != nil {
			return err
		}

		if err := saveMedicines(); err != nil {
			return err
		}

		color.Green("✓ Updated %s", m.Name)
		fmt.Printf("  %s %g %s  %s\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Dose, m.Units, m.Schedule())

		return nil
	},
}

var medRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "del"},
	Short:   "Remove a medicine",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := cabinet.Resolve(args[0])
		if err != nil {
			return err
		}

		m, err := cabinet.Get(pos)
		if err != nil {
			return err
		}

		if !medYes {
			fmt.Printf("%s  %g %s  %s\n", m.Name, m.Dose, m.Units, m.Schedule())
			if err := confirm("Remove this medicine?"); err != nil {
				if errors.Is(err, vitals.ErrNoSelection) {
					fmt.Println("The medicine will not be removed.")
					return nil
				}
				return err
			}
		}

		removed, err := cabinet.Remove(pos)
		if err != nil {
			return err
		}

		if err := saveMedicines(); err != nil {
			return err
		}

		color.Yellow("✗ Removed %s", removed.Name)
		return nil
	},
}

func printMedicines(meds []models.Medicine) {
	faint := color.New(color.Faint)
	for _, m := range meds {
		purpose := ""
		if m.Purpose != "" {
			purpose = faint.Sprintf(" (%s)", m.Purpose)
		}
		fmt.Printf("%s %s  %g %s  %s%s\n",
			faint.Sprint(m.ID.String()[:8]),
			padRight(m.Name, 20),
			m.Dose, m.Units,
			m.Schedule(),
			purpose)
	}
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// parseTimes reads a schedule like "BB=1,BD=2" into slot counts.
func parseTimes(s string) (map[string]int, error) {
	times := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid schedule entry %q (use SLOT=COUNT, e.g. BB=1)", part)
		}
		slot := strings.ToUpper(strings.TrimSpace(kv[0]))
		count, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid dose count in %q", part)
		}
		times[slot] = count
	}
	return times, nil
}

func init() {
	medAddCmd.Flags().StringVar(&medPurpose, "purpose", "", "what the medicine is for")
	medAddCmd.Flags().Float64Var(&medDose, "dose", 0, "dose amount")
	medAddCmd.Flags().StringVar(&medUnits, "units", "", "dose units: g, mg, mcg, units")
	medAddCmd.Flags().StringVar(&medTimes, "times", "", "schedule as SLOT=COUNT pairs (e.g. BB=1,BD=1)")

	medEditCmd.Flags().StringVar(&medNewName, "name", "", "new name")
	medEditCmd.Flags().StringVar(&medPurpose, "purpose", "", "new purpose")
	medEditCmd.Flags().Float64Var(&medDose, "dose", 0, "new dose amount")
	medEditCmd.Flags().StringVar(&medUnits, "units", "", "new dose units")
	medEditCmd.Flags().StringVar(&medTimes, "times", "", "new schedule as SLOT=COUNT pairs")

	medRemoveCmd.Flags().BoolVarP(&medYes, "yes", "y", false, "skip confirmation prompt")

	medCmd.AddCommand(medAddCmd)
	medCmd.AddCommand(medListCmd)
	medCmd.AddCommand(medSearchCmd)
	medCmd.AddCommand(medEditCmd)
	medCmd.AddCommand(medRemoveCmd)
	rootCmd.AddCommand(medCmd)
}
