package factor

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/pkg/logger"
)

func f64(v float64) *float64 { return &v }

func TestWeightsCombineExact(t *testing.T) {
	w := DefaultConfig().Weights

	assert.Equal(t, 1.0, w.Combine(1, 1, 1))
	assert.Equal(t, -1.0, w.Combine(-1, -1, -1))

	// three symbols with normalized legs (1,0,-1) each
	scores := []float64{
		w.Combine(1, 1, 1),
		w.Combine(0, 0, 0),
		w.Combine(-1, -1, -1),
	}
	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[1], scores[2])
	assert.Equal(t, 0.25*1+0.50*1+0.25*1, scores[0])
}

func TestScorerEmptyInput(t *testing.T) {
	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(context.Background(), "20240104", nil, nil)
	require.NotNil(t, table)
	assert.Empty(t, table.Rows)
}

func TestScorerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snaps := []contracts.Snapshot{
		{Code: "000001", PE: 8, PB: 1.2, MarketCap: 1e10, Industry: "bank"},
	}
	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(ctx, "20240104", snaps, nil)
	require.NotNil(t, table)
	assert.Empty(t, table.Rows)
}

func TestScorerDropsInvalidFundamentals(t *testing.T) {
	snaps := []contracts.Snapshot{
		{Code: "000001", PE: -5, PB: 1.2, MarketCap: 1e10, Industry: "bank"},
		{Code: "000002", PE: 8, PB: 0, MarketCap: 1e10, Industry: "bank"},
		{Code: "000003", PE: 8, PB: 1.0, MarketCap: 0, Industry: "bank"},
	}
	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(context.Background(), "20240104", snaps, nil)
	assert.Empty(t, table.Rows)
}

func TestScorerMarketCapFallbackFromShares(t *testing.T) {
	snaps := make([]contracts.Snapshot, 0, 12)
	for i := 0; i < 12; i++ {
		snaps = append(snaps, contracts.Snapshot{
			Code:      fmt.Sprintf("6000%02d", i),
			Price:     10 + float64(i),
			PE:        10 + float64(i),
			PB:        1 + 0.1*float64(i),
			SharesOut: f64(1e9),
			Industry:  "manufacturing",
		})
	}
	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(context.Background(), "20240104", snaps, nil)
	assert.Len(t, table.Rows, 12)
}

func TestScorerDropsThinIndustries(t *testing.T) {
	var snaps []contracts.Snapshot
	for i := 0; i < 6; i++ {
		snaps = append(snaps, contracts.Snapshot{
			Code: fmt.Sprintf("0000%02d", i), PE: 10 + float64(i), PB: 1.5,
			MarketCap: 1e10, Industry: "bank",
		})
	}
	snaps = append(snaps, contracts.Snapshot{
		Code: "300001", PE: 30, PB: 5, MarketCap: 1e9, Industry: "biotech",
	})

	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(context.Background(), "20240104", snaps, nil)

	require.Len(t, table.Rows, 6)
	for _, row := range table.Rows {
		assert.NotEqual(t, "biotech", row.Industry)
	}
}

func TestScorerRankOrdering(t *testing.T) {
	var snaps []contracts.Snapshot
	fins := make(map[string]contracts.FinancialRecord)
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("6010%02d", i)
		snaps = append(snaps, contracts.Snapshot{
			Code:      code,
			Name:      "stock" + code,
			Price:     10,
			PE:        5 + float64(i)*3, // cheap to expensive
			PB:        0.8 + float64(i)*0.3,
			MarketCap: 5e9 + float64(i)*1e9,
			Industry:  "manufacturing",
		})
		fins[code] = contracts.FinancialRecord{
			Code:          code,
			ROE:           f64(25 - float64(i)),
			RevenueGrowth: f64(30 - float64(i)*2),
			ProfitGrowth:  f64(30 - float64(i)*2),
		}
	}

	s := NewScorer(DefaultConfig(), logger.NewNop())
	table := s.Score(context.Background(), "20240104", snaps, fins)
	require.Len(t, table.Rows, 20)

	// output sorted by descending alpha; rank ascending, best near 0
	for i := 1; i < len(table.Rows); i++ {
		assert.GreaterOrEqual(t, table.Rows[i-1].AlphaScore, table.Rows[i].AlphaScore)
		assert.Less(t, table.Rows[i-1].AlphaRank, table.Rows[i].AlphaRank)
	}
	assert.InDelta(t, 1.0/20.0, table.Rows[0].AlphaRank, 1e-12)
	assert.Equal(t, 1.0, table.Rows[len(table.Rows)-1].AlphaRank)

	top := table.Top(0.10)
	assert.Len(t, top, 2)
}

func TestScorerFiveFactorScheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubWeights = FiveFactorSubWeights()

	var snaps []contracts.Snapshot
	fins := make(map[string]contracts.FinancialRecord)
	for i := 0; i < 15; i++ {
		code := fmt.Sprintf("0020%02d", i)
		snaps = append(snaps, contracts.Snapshot{
			Code: code, Price: 10, PE: 8 + float64(i), PB: 1 + 0.2*float64(i),
			MarketCap: 1e10, Industry: "manufacturing",
		})
		fins[code] = contracts.FinancialRecord{
			Code: code, ROE: f64(20 - float64(i)),
			RevenueGrowth: f64(float64(15 - i)), ProfitGrowth: f64(float64(15 - i)),
		}
	}

	s := NewScorer(cfg, logger.NewNop())
	table := s.Score(context.Background(), "20240104", snaps, fins)
	require.Len(t, table.Rows, 15)
	for i := 1; i < len(table.Rows); i++ {
		assert.GreaterOrEqual(t, table.Rows[i-1].AlphaScore, table.Rows[i].AlphaScore)
	}
}

func TestDescendingRankStableTies(t *testing.T) {
	ranks := descendingRank([]float64{0.5, 0.9, 0.5, 0.1})

	assert.Equal(t, 0.25, ranks[1])       // best
	assert.Equal(t, 0.50, ranks[0])       // first of the tied pair
	assert.Equal(t, 0.75, ranks[2])       // second of the tied pair
	assert.Equal(t, 1.00, ranks[3])
}

func TestClipNegativeTail(t *testing.T) {
	col := []float64{5, -1, -10, -50, -100, 3}
	out := clipNegativeTail(col, 0.25)

	// negatives sorted: -100,-50,-10,-1; 25th pct nearest rank = -100
	assert.Equal(t, 5.0, out[0])
	assert.Equal(t, -100.0, out[4])

	// no negatives: untouched
	pos := []float64{1, 2, 3}
	assert.Equal(t, pos, clipNegativeTail(pos, 0.25))
}

func TestDynamicWeights(t *testing.T) {
	value := []float64{0.01, -0.01, 0.02, -0.02, 0.01}
	quality := []float64{0.005, -0.005, 0.01, -0.01, 0.005} // half the vol of value
	growth := []float64{0.01, -0.01, 0.02, -0.02, 0.01}

	w := DynamicWeights(value, quality, growth)
	assert.InDelta(t, 1.0, w.Value+w.Quality+w.Growth, 1e-9)
	assert.Greater(t, w.Quality, w.Value) // lower vol earns more weight
	assert.InDelta(t, w.Value, w.Growth, 1e-9)

	// degenerate input falls back to the static defaults
	def := DynamicWeights(nil, quality, growth)
	assert.Equal(t, DefaultConfig().Weights, def)
}

func TestFillWithMean(t *testing.T) {
	col := []float64{1, math.NaN(), 3}
	fillWithMean(col)
	assert.Equal(t, []float64{1, 2, 3}, col)

	all := []float64{math.NaN(), math.NaN()}
	fillWithMean(all)
	assert.Equal(t, []float64{0, 0}, all)
}
