package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwchen/argus/internal/algo"
	"github.com/jwchen/argus/internal/backtest"
	"github.com/jwchen/argus/internal/contracts"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the signal algorithms over a date range",
	Long: `Backtests one signal algorithm, or the whole family, over the
screened universe. Each trading day the algorithm picks its top
candidates, buys at that day's close and sells at the next day's open.

Example:
  go run ./cmd/argus backtest --from 20240101 --to 20240301
  go run ./cmd/argus backtest --from 20240101 --algo macd_cross
  go run ./cmd/argus backtest --from 20240101 --codes 600519,000858 --trades trades.csv`,
	RunE: runBacktestCmd,
}

var (
	backtestFrom    string
	backtestTo      string
	backtestAlgo    string
	backtestCodes   []string
	backtestTopN    int
	backtestCapital float64
	backtestTrades  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "start date (YYYYMMDD, required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "end date (YYYYMMDD, default today)")
	backtestCmd.Flags().StringVar(&backtestAlgo, "algo", "", "single algorithm to run (default: whole family)")
	backtestCmd.Flags().StringSliceVar(&backtestCodes, "codes", nil, "symbols to backtest (default: screened universe)")
	backtestCmd.Flags().IntVar(&backtestTopN, "top", 0, "candidates bought per day (default from config)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (default from config)")
	backtestCmd.Flags().StringVar(&backtestTrades, "trades", "", "write the best run's trades to this CSV file")

	backtestCmd.MarkFlagRequired("from")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	to := backtestTo
	if to == "" {
		to = contracts.FormatDate(time.Now())
	}
	if backtestFrom > to {
		return fmt.Errorf("invalid range: %s > %s", backtestFrom, to)
	}
	topN := backtestTopN
	if topN <= 0 {
		topN = rt.cfg.Backtest.TopN
	}
	capital := backtestCapital
	if capital <= 0 {
		capital = rt.cfg.Backtest.InitialCapital
	}

	codes := backtestCodes
	if len(codes) == 0 {
		codes, err = rt.newScreener().TopCodes(ctx)
		if err != nil {
			return fmt.Errorf("screen universe: %w", err)
		}
	}
	if len(codes) == 0 {
		return fmt.Errorf("no symbols to backtest")
	}

	cal, err := rt.client.FetchCalendar(ctx, backtestFrom, to)
	if err != nil {
		return fmt.Errorf("trading calendar: %w", err)
	}

	panel, err := rt.loader.Load(ctx, codes, backtestFrom, to)
	if err != nil {
		return err
	}

	in := backtest.RunInput{
		Panel:          panel,
		Calendar:       cal,
		Start:          backtestFrom,
		End:            to,
		TopN:           topN,
		InitialCapital: capital,
	}

	engine := rt.newEngine()
	var results []*backtest.Result
	if backtestAlgo != "" {
		a, ok := algo.ByName(backtestAlgo)
		if !ok {
			return fmt.Errorf("unknown algorithm %q, valid: %v", backtestAlgo, algo.Names())
		}
		in.Algorithm = a
		res, err := engine.Run(ctx, in)
		if err != nil {
			return err
		}
		results = []*backtest.Result{res}
	} else {
		results, err = engine.RunAll(ctx, in)
		if err != nil {
			return err
		}
	}

	printHeader(fmt.Sprintf("Backtest  %s ~ %s  (%d symbols, %d trading days)", backtestFrom, to, len(panel), len(cal)))
	printResultTable(results)

	best := backtest.Best(results, rt.cfg.Backtest.BestStrategyBy)
	if best == nil {
		printWarning("no algorithm produced any trades")
		return nil
	}
	fmt.Println()
	printSuccess(fmt.Sprintf("best strategy: %s (by %s)", best.Algorithm, rt.cfg.Backtest.BestStrategyBy))

	if backtestTrades != "" {
		if err := writeCSV(backtestTrades, &best.Trades); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("wrote %d trades to %s", len(best.Trades), backtestTrades))
	}
	return nil
}

// printResultTable prints one row per algorithm run.
func printResultTable(results []*backtest.Result) {
	widths := []int{18, 7, 8, 8, 8, 8, 8, 8}
	printTableHeader([]string{"Algorithm", "Trades", "WinRate", "Total", "Avg", "P/L", "MaxDD", "Annual"}, widths)
	for _, res := range results {
		stats := res.Statistics()
		if stats == nil {
			printTableRow([]string{res.Algorithm, "0", "-", "-", "-", "-", "-", "-"}, widths)
			continue
		}
		printTableRow([]string{
			res.Algorithm,
			fmt.Sprintf("%d", stats.TotalTrades),
			fmt.Sprintf("%.1f%%", stats.WinRate*100),
			formatPct(stats.TotalReturn),
			formatPct(stats.AvgReturn),
			fmt.Sprintf("%.2f", stats.ProfitLossRatio),
			fmt.Sprintf("%.2f%%", stats.MaxDrawdown*100),
			formatPct(stats.AnnualReturn),
		}, widths)
	}
}
