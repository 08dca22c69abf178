package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	fiveFactor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "Argus - multi-factor stock screening and signal backtesting",
	Long: `Argus unified CLI

Screens the A-share market with a value/quality/growth factor model,
backtests a family of short-horizon signal algorithms over the screened
universe, and recommends the winning strategy's picks.

Usage:
  go run ./cmd/argus [command]

Examples:
  go run ./cmd/argus screen
  go run ./cmd/argus backtest --from 20240101 --to 20240301
  go run ./cmd/argus recommend --from 20240101 --to 20240301
  go run ./cmd/argus fetch
  go run ./cmd/argus serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&fiveFactor, "five-factor", false, "use the 28/28/17/17/10 five-factor weighting instead of the three-leg composite")
}
