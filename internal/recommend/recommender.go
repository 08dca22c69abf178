// Package recommend runs the full advisory flow: screen the market,
// backtest every signal algorithm over the screened universe, pick
// the champion and surface its picks for the latest trading day.
package recommend

import (
	"context"
	"fmt"

	"github.com/jwchen/argus/internal/algo"
	"github.com/jwchen/argus/internal/backtest"
	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/marketdata"
	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/pkg/logger"
)

// Recommendation is the advisory output: the winning strategy, its
// backtest statistics and the symbols it picks for the latest date.
type Recommendation struct {
	BestAlgorithm string               `json:"best_algorithm"`
	Stats         *backtest.Statistics `json:"stats"`
	AsOf          string               `json:"as_of"`
	Picks         []algo.Candidate     `json:"picks"`
	Results       []*backtest.Result   `json:"results"`
}

// Config bounds the recommendation run.
type Config struct {
	Start          string
	End            string
	TopN           int
	InitialCapital float64
	PreferBy       string
}

// Recommender owns the screen-backtest-pick pipeline.
type Recommender struct {
	screener *screen.Screener
	loader   *marketdata.PanelLoader
	calendar contracts.CalendarFeed
	engine   *backtest.Engine
	logger   *logger.Logger
}

// New creates a recommender.
func New(screener *screen.Screener, loader *marketdata.PanelLoader, calendar contracts.CalendarFeed, engine *backtest.Engine, log *logger.Logger) *Recommender {
	return &Recommender{
		screener: screener,
		loader:   loader,
		calendar: calendar,
		engine:   engine,
		logger:   log,
	}
}

// Run executes the full flow. It fails only on upstream-feed absence
// (no universe, no calendar); per-symbol data gaps degrade silently
// inside the engine.
func (r *Recommender) Run(ctx context.Context, cfg Config) (*Recommendation, error) {
	codes, err := r.screener.TopCodes(ctx)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("recommend: screen produced an empty universe")
	}
	r.logger.Infof("screened universe: %d symbols", len(codes))

	cal, err := r.calendar.FetchCalendar(ctx, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("recommend: calendar feed: %w", err)
	}
	if len(cal) == 0 {
		return nil, fmt.Errorf("recommend: no trading days in [%s, %s]", cfg.Start, cfg.End)
	}

	panel, err := r.loader.Load(ctx, codes, cfg.Start, cfg.End)
	if err != nil {
		return nil, err
	}
	if len(panel) == 0 {
		return nil, fmt.Errorf("recommend: empty price panel")
	}

	results, err := r.engine.RunAll(ctx, backtest.RunInput{
		Panel:          panel,
		Calendar:       cal,
		Start:          cfg.Start,
		End:            cfg.End,
		TopN:           cfg.TopN,
		InitialCapital: cfg.InitialCapital,
	})
	if err != nil {
		return nil, err
	}

	best := backtest.Best(results, cfg.PreferBy)
	if best == nil {
		return nil, fmt.Errorf("recommend: no algorithm produced any trades")
	}
	bestAlgo, ok := algo.ByName(best.Algorithm)
	if !ok {
		return nil, fmt.Errorf("recommend: unknown winning algorithm %q", best.Algorithm)
	}

	asOf := cal.Latest()
	picks := algo.RankCandidates(bestAlgo, panel, asOf)
	if len(picks) > cfg.TopN {
		picks = picks[:cfg.TopN]
	}

	r.logger.WithFields(map[string]interface{}{
		"algorithm": best.Algorithm,
		"as_of":     asOf,
		"picks":     len(picks),
	}).Info("recommendation ready")

	return &Recommendation{
		BestAlgorithm: best.Algorithm,
		Stats:         best.Statistics(),
		AsOf:          asOf,
		Picks:         picks,
		Results:       results,
	}, nil
}
