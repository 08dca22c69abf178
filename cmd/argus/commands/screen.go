package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run the factor screen against the live market",
	Long: `Pulls the full market snapshot, scores every stock on the
value/quality/growth composite and prints the top fraction.

Example:
  go run ./cmd/argus screen
  go run ./cmd/argus screen --fraction 0.05
  go run ./cmd/argus screen --five-factor --csv picks.csv`,
	RunE: runScreen,
}

var (
	screenFraction float64
	screenAll      bool
	screenCSV      string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().Float64Var(&screenFraction, "fraction", 0, "top fraction to print (default from config)")
	screenCmd.Flags().BoolVar(&screenAll, "all", false, "print the full scored table, not just the top fraction")
	screenCmd.Flags().StringVar(&screenCSV, "csv", "", "write the printed rows to this CSV file")
}

func runScreen(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	fraction := screenFraction
	if fraction <= 0 || fraction > 1 {
		fraction = rt.cfg.Factor.TopFraction
	}

	table, err := rt.newScreener().Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("screen failed: %w", err)
	}

	rows := table.Top(fraction)
	if screenAll {
		rows = table.Rows
	}

	printHeader(fmt.Sprintf("Factor Screen  %s  (%d of %d stocks)", table.AsOf, len(rows), len(table.Rows)))

	widths := []int{8, 12, 10, 8, 8, 8, 8, 8}
	printTableHeader([]string{"Code", "Name", "Industry", "Value", "Quality", "Growth", "Alpha", "Rank"}, widths)
	for _, r := range rows {
		printTableRow([]string{
			r.Code,
			r.Name,
			r.Industry,
			fmt.Sprintf("%.3f", r.Value),
			fmt.Sprintf("%.3f", r.Quality),
			fmt.Sprintf("%.3f", r.Growth),
			fmt.Sprintf("%.3f", r.AlphaScore),
			fmt.Sprintf("%.4f", r.AlphaRank),
		}, widths)
	}
	fmt.Println()

	if screenCSV != "" {
		if err := writeCSV(screenCSV, &rows); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("wrote %d rows to %s", len(rows), screenCSV))
	}
	return nil
}
