// Package screen wires the market feeds into the factor scorer: one
// call fetches the live snapshot plus fundamentals and produces the
// ranked factor table.
package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/factor"
	"github.com/jwchen/argus/pkg/logger"
)

// Screener runs the multi-factor screen over live feeds.
type Screener struct {
	snapshots   contracts.SnapshotFeed
	financials  contracts.FinancialFeed
	scorer      *factor.Scorer
	topFraction float64
	logger      *logger.Logger
}

// New creates a screener. financials may be nil when no fundamental
// feed is available; quality and growth then fall back per the scorer.
func New(snapshots contracts.SnapshotFeed, financials contracts.FinancialFeed, scorer *factor.Scorer, topFraction float64, log *logger.Logger) *Screener {
	return &Screener{
		snapshots:   snapshots,
		financials:  financials,
		scorer:      scorer,
		topFraction: topFraction,
		logger:      log,
	}
}

// Run fetches the current market and scores it. A failed snapshot
// feed aborts the run - without a quote table there is nothing to
// score. A failed financial feed only degrades it.
func (s *Screener) Run(ctx context.Context) (*contracts.FactorTable, error) {
	snaps, err := s.snapshots.FetchSpot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screen: snapshot feed: %w", err)
	}

	var fins map[string]contracts.FinancialRecord
	if s.financials != nil {
		fins, err = s.financials.FetchFinancials(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("financial feed unavailable, scoring on valuation only")
			fins = nil
		}
	}

	asOf := contracts.FormatDate(time.Now())
	return s.scorer.Score(ctx, asOf, snaps, fins), nil
}

// TopCodes runs the screen and returns the best-ranked fraction of
// symbols, in rank order.
func (s *Screener) TopCodes(ctx context.Context) ([]string, error) {
	table, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	top := table.Top(s.topFraction)
	codes := make([]string, len(top))
	for i, row := range top {
		codes[i] = row.Code
	}
	return codes, nil
}
