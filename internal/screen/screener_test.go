package screen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/factor"
	"github.com/jwchen/argus/pkg/logger"
)

type stubSnapshots struct {
	snaps []contracts.Snapshot
	err   error
}

func (s *stubSnapshots) FetchSpot(context.Context) ([]contracts.Snapshot, error) {
	return s.snaps, s.err
}

type stubFinancials struct {
	fins map[string]contracts.FinancialRecord
	err  error
}

func (s *stubFinancials) FetchFinancials(context.Context) (map[string]contracts.FinancialRecord, error) {
	return s.fins, s.err
}

func marketFixture(n int) []contracts.Snapshot {
	snaps := make([]contracts.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snaps = append(snaps, contracts.Snapshot{
			Code:      fmt.Sprintf("6005%02d", i),
			Name:      fmt.Sprintf("stock%02d", i),
			Price:     10 + float64(i),
			PE:        8 + float64(i)*2,
			PB:        1 + 0.2*float64(i),
			MarketCap: 1e10 + float64(i)*1e9,
			Industry:  "manufacturing",
		})
	}
	return snaps
}

func newScreener(snaps *stubSnapshots, fins *stubFinancials) *Screener {
	scorer := factor.NewScorer(factor.DefaultConfig(), logger.NewNop())
	var finFeed contracts.FinancialFeed
	if fins != nil {
		finFeed = fins
	}
	return New(snaps, finFeed, scorer, 0.3, logger.NewNop())
}

func TestScreenerRun(t *testing.T) {
	s := newScreener(&stubSnapshots{snaps: marketFixture(10)}, &stubFinancials{})

	table, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 10)
	assert.NotEmpty(t, table.AsOf)
}

func TestScreenerSnapshotFailureAborts(t *testing.T) {
	s := newScreener(&stubSnapshots{err: errors.New("feed down")}, &stubFinancials{})

	_, err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestScreenerFinancialFailureDegrades(t *testing.T) {
	s := newScreener(
		&stubSnapshots{snaps: marketFixture(10)},
		&stubFinancials{err: errors.New("scrape blocked")},
	)

	table, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 10)
}

func TestScreenerTopCodes(t *testing.T) {
	s := newScreener(&stubSnapshots{snaps: marketFixture(10)}, nil)

	codes, err := s.TopCodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, codes, 3) // top 30% of 10 rows
}
