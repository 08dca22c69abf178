package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/marketdata"
	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/pkg/logger"
)

// CollectJob snapshots the full market after the close and tops up
// stored bar histories for every known symbol.
type CollectJob struct {
	snapshots contracts.SnapshotFeed
	loader    *marketdata.PanelLoader
	prices    contracts.PriceStore
	store     contracts.SnapshotStore
	lookback  int // calendar days of history to refresh
	logger    *logger.Logger
}

// NewCollectJob creates the daily collection job.
func NewCollectJob(snapshots contracts.SnapshotFeed, loader *marketdata.PanelLoader, prices contracts.PriceStore, store contracts.SnapshotStore, lookbackDays int, log *logger.Logger) *CollectJob {
	if lookbackDays <= 0 {
		lookbackDays = 120
	}
	return &CollectJob{
		snapshots: snapshots,
		loader:    loader,
		prices:    prices,
		store:     store,
		lookback:  lookbackDays,
		logger:    log,
	}
}

func (j *CollectJob) Name() string { return "daily_collect" }

// Weekdays at 17:30, after the A-share close and settlement.
func (j *CollectJob) Schedule() string { return "0 30 17 * * 1-5" }

func (j *CollectJob) Run(ctx context.Context) error {
	snaps, err := j.snapshots.FetchSpot(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	today := contracts.FormatDate(time.Now())
	if err := j.store.SaveSnapshots(ctx, today, snaps); err != nil {
		return fmt.Errorf("collect: save snapshots: %w", err)
	}

	codes := make([]string, len(snaps))
	for i, s := range snaps {
		codes[i] = s.Code
	}
	start := contracts.FormatDate(time.Now().AddDate(0, 0, -j.lookback))
	panel, err := j.loader.Load(ctx, codes, start, today)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	saved := 0
	for code, bars := range panel {
		if err := j.prices.SaveBars(ctx, code, bars); err != nil {
			j.logger.WithError(err).Warnf("collect: bar save failed for %s", code)
			continue
		}
		saved++
	}
	j.logger.Infof("collect: stored %d snapshots, %d bar histories", len(snaps), saved)
	return nil
}

// ScreenJob refreshes the published factor table each evening once
// the day's data has been collected.
type ScreenJob struct {
	screener *screen.Screener
	latest   *screen.Latest
	logger   *logger.Logger
}

// NewScreenJob creates the evening screen refresh job.
func NewScreenJob(screener *screen.Screener, latest *screen.Latest, log *logger.Logger) *ScreenJob {
	return &ScreenJob{screener: screener, latest: latest, logger: log}
}

func (j *ScreenJob) Name() string { return "daily_screen" }

// Weekdays at 18:00, after the collect job.
func (j *ScreenJob) Schedule() string { return "0 0 18 * * 1-5" }

func (j *ScreenJob) Run(ctx context.Context) error {
	table, err := j.screener.Run(ctx)
	if err != nil {
		return fmt.Errorf("screen job: %w", err)
	}
	j.latest.Set(table)
	j.logger.Infof("screen job: published table with %d rows", len(table.Rows))
	return nil
}
