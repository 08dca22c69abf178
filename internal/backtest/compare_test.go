package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithReturns(name string, rets ...float64) *Result {
	r := NewResult(name, "20240101", "20240201", 100000)
	for _, ret := range rets {
		r.AddTrade(tradeWithReturn(ret))
	}
	return r
}

func TestBestUnambiguousWinner(t *testing.T) {
	// momentum wins both win rate and total return
	momentum := resultWithReturns("momentum", 0.05, 0.04, -0.01)
	breakout := resultWithReturns("breakout", 0.01, -0.02, -0.03)

	best := Best([]*Result{momentum, breakout}, PreferTotalReturn)
	require.NotNil(t, best)
	assert.Equal(t, "momentum", best.Algorithm)
}

func TestBestDisagreementPrefersTotalReturn(t *testing.T) {
	// kdj has the better win rate, breakout the better total return
	kdj := resultWithReturns("kdj_cross", 0.01, 0.01, 0.01)
	breakout := resultWithReturns("breakout", 0.30, -0.05, -0.05)

	best := Best([]*Result{kdj, breakout}, PreferTotalReturn)
	require.NotNil(t, best)
	assert.Equal(t, "breakout", best.Algorithm)

	best = Best([]*Result{kdj, breakout}, PreferWinRate)
	require.NotNil(t, best)
	assert.Equal(t, "kdj_cross", best.Algorithm)
}

func TestBestIgnoresEmptyRuns(t *testing.T) {
	empty := NewResult("momentum", "20240101", "20240201", 100000)
	traded := resultWithReturns("breakout", 0.01)

	best := Best([]*Result{empty, traded}, PreferTotalReturn)
	require.NotNil(t, best)
	assert.Equal(t, "breakout", best.Algorithm)

	assert.Nil(t, Best([]*Result{empty}, PreferTotalReturn))
	assert.Nil(t, Best(nil, PreferTotalReturn))
}

func TestCompareDropsEmptyRuns(t *testing.T) {
	comps := Compare([]*Result{
		NewResult("momentum", "20240101", "20240201", 100000),
		resultWithReturns("breakout", 0.01, -0.02),
	})
	require.Len(t, comps, 1)
	assert.Equal(t, "breakout", comps[0].Result.Algorithm)
	assert.Equal(t, 2, comps[0].Stats.TotalTrades)
}
