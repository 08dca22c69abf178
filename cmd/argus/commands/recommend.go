package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/recommend"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Screen, backtest every algorithm and pick the champion",
	Long: `Runs the full advisory flow: screens the market, backtests the
whole algorithm family over the screened universe, and prints the
winning strategy's picks for the latest trading day.

Example:
  go run ./cmd/argus recommend --from 20240101 --to 20240301
  go run ./cmd/argus recommend --from 20240101 --prefer win_rate`,
	RunE: runRecommend,
}

var (
	recommendFrom   string
	recommendTo     string
	recommendTopN   int
	recommendPrefer string
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendFrom, "from", "", "backtest start date (YYYYMMDD, required)")
	recommendCmd.Flags().StringVar(&recommendTo, "to", "", "backtest end date (YYYYMMDD, default today)")
	recommendCmd.Flags().IntVar(&recommendTopN, "top", 0, "picks to surface (default from config)")
	recommendCmd.Flags().StringVar(&recommendPrefer, "prefer", "", "tie-break metric: total_return or win_rate (default from config)")

	recommendCmd.MarkFlagRequired("from")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	to := recommendTo
	if to == "" {
		to = contracts.FormatDate(time.Now())
	}
	topN := recommendTopN
	if topN <= 0 {
		topN = rt.cfg.Backtest.TopN
	}
	prefer := recommendPrefer
	if prefer == "" {
		prefer = rt.cfg.Backtest.BestStrategyBy
	}

	recommender := recommend.New(rt.newScreener(), rt.loader, rt.client, rt.newEngine(), rt.log)
	rec, err := recommender.Run(cmd.Context(), recommend.Config{
		Start:          recommendFrom,
		End:            to,
		TopN:           topN,
		InitialCapital: rt.cfg.Backtest.InitialCapital,
		PreferBy:       prefer,
	})
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	printHeader(fmt.Sprintf("Recommendation  as of %s", rec.AsOf))
	printResultTable(rec.Results)
	fmt.Println()

	printSuccess(fmt.Sprintf("champion: %s", rec.BestAlgorithm))
	if rec.Stats != nil {
		printKeyValue("Win rate", fmt.Sprintf("%.1f%%", rec.Stats.WinRate*100), 14)
		printKeyValue("Total return", formatPct(rec.Stats.TotalReturn), 14)
		printKeyValue("Max drawdown", fmt.Sprintf("%.2f%%", rec.Stats.MaxDrawdown*100), 14)
		printKeyValue("Annual return", formatPct(rec.Stats.AnnualReturn), 14)
		printKeyValue("Final capital", rec.Stats.FinalCapital.StringFixed(2), 14)
	}
	fmt.Println()

	if len(rec.Picks) == 0 {
		printWarning("the champion has no picks for the latest day")
		return nil
	}

	widths := []int{8, 18, 8}
	printTableHeader([]string{"Code", "Algorithm", "Score"}, widths)
	for _, p := range rec.Picks {
		printTableRow([]string{p.Code, rec.BestAlgorithm, fmt.Sprintf("%.0f", p.Score)}, widths)
	}
	fmt.Println()
	return nil
}
