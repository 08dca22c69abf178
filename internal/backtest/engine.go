// Package backtest runs signal algorithms over historical panels with
// a fixed one-day holding rule and computes performance statistics.
package backtest

import (
	"context"

	"github.com/jwchen/argus/internal/algo"
	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/pkg/logger"
)

// RunInput describes one backtest: an algorithm, the price panel, the
// trading calendar and the selection window.
type RunInput struct {
	Algorithm      algo.Algorithm
	Panel          contracts.PricePanel
	Calendar       contracts.Calendar
	Start          string // YYYYMMDD inclusive
	End            string // YYYYMMDD inclusive
	TopN           int
	InitialCapital float64
}

// Engine drives the day-by-day simulation. Panel and calendar are
// read-only during a run; day n's selection never sees day n+1 bars
// because scoring is point-in-time by contract.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a backtest engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Run walks consecutive trading-day pairs in [Start, End]: buy the
// selected symbols at the first day's close, sell at the next day's
// open. Symbols missing either bar are skipped silently - a partial
// gap is per-symbol data quality, not a run failure.
func (e *Engine) Run(ctx context.Context, in RunInput) (*Result, error) {
	result := NewResult(in.Algorithm.Name(), in.Start, in.End, in.InitialCapital)

	days := in.Calendar.Span(in.Start, in.End)
	if len(days) < 2 {
		e.logger.Warnf("backtest %s: fewer than two trading days in [%s, %s]",
			in.Algorithm.Name(), in.Start, in.End)
		return result, nil
	}

	for i := 0; i+1 < len(days); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buyDate, sellDate := days[i], days[i+1]

		selected := algo.SelectStocks(in.Algorithm, in.Panel, buyDate, in.TopN)
		for _, code := range selected {
			h := in.Panel[code]
			buyIdx, ok := h.IndexOf(buyDate)
			if !ok {
				continue
			}
			sellIdx, ok := h.IndexOf(sellDate)
			if !ok {
				e.logger.Debugf("backtest %s: %s has no bar on %s, skipped",
					in.Algorithm.Name(), code, sellDate)
				continue
			}
			buyPrice := h[buyIdx].Close
			sellPrice := h[sellIdx].Open
			if buyPrice <= 0 || sellPrice <= 0 {
				continue
			}
			result.AddTrade(contracts.Trade{
				Code:      code,
				BuyDate:   buyDate,
				BuyPrice:  buyPrice,
				SellDate:  sellDate,
				SellPrice: sellPrice,
			})
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"algorithm": in.Algorithm.Name(),
		"start":     in.Start,
		"end":       in.End,
		"trades":    len(result.Trades),
	}).Info("backtest finished")
	return result, nil
}

// RunAll backtests every algorithm in the family over the same panel
// and window.
func (e *Engine) RunAll(ctx context.Context, in RunInput) ([]*Result, error) {
	results := make([]*Result, 0, len(algo.All()))
	for _, a := range algo.All() {
		run := in
		run.Algorithm = a
		res, err := e.Run(ctx, run)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
