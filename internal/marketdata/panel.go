package marketdata

import (
	"context"
	"sync"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/pkg/logger"
)

// PanelLoader downloads per-symbol histories concurrently and merges
// them into one panel. Downloads are independent; the merge completes
// before the panel is handed to any day-by-day consumer.
type PanelLoader struct {
	feed    contracts.HistoryFeed
	workers int
	logger  *logger.Logger
}

// NewPanelLoader creates a loader with a bounded worker count.
func NewPanelLoader(feed contracts.HistoryFeed, workers int, log *logger.Logger) *PanelLoader {
	if workers <= 0 {
		workers = 1
	}
	return &PanelLoader{feed: feed, workers: workers, logger: log}
}

// Load fetches bars for every code over [start, end]. A failed or
// empty symbol is logged and left out of the panel; only context
// cancellation aborts the whole load.
func (l *PanelLoader) Load(ctx context.Context, codes []string, start, end string) (contracts.PricePanel, error) {
	panel := make(contracts.PricePanel, len(codes))

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for code := range jobs {
				bars, err := l.feed.FetchHistory(ctx, code, start, end)
				if err != nil {
					l.logger.WithError(err).Warnf("history load failed for %s, skipped", code)
					continue
				}
				if len(bars) == 0 {
					continue
				}
				mu.Lock()
				panel[code] = bars
				mu.Unlock()
			}
		}()
	}

feed:
	for _, code := range codes {
		select {
		case jobs <- code:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger.Infof("loaded price panel: %d/%d symbols", len(panel), len(codes))
	return panel, nil
}
