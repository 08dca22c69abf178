package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwchen/argus/internal/contracts"
)

// flatHistory builds n identical bars.
func flatHistory(n int, price float64) contracts.History {
	h := make(contracts.History, n)
	for i := range h {
		h[i] = contracts.PriceBar{
			Date: dateAt(i), Open: price, High: price, Low: price, Close: price, Volume: 1000,
		}
	}
	return h
}

// trendHistory compounds close by rate per bar starting from base.
func trendHistory(n int, base, rate float64) contracts.History {
	h := make(contracts.History, n)
	price := base
	for i := range h {
		h[i] = contracts.PriceBar{
			Date: dateAt(i), Open: price, High: price * 1.01, Low: price * 0.99,
			Close: price, Volume: 1000,
		}
		price *= 1 + rate
	}
	return h
}

// dateAt produces synthetic ascending YYYYMMDD dates.
func dateAt(i int) string {
	epoch, err := contracts.ParseDate("20240101")
	if err != nil {
		panic(err)
	}
	return contracts.FormatDate(epoch.AddDate(0, 0, i))
}

func TestEMASeries(t *testing.T) {
	data := []float64{10, 11, 12, 13}
	ema := emaSeries(data, 3) // alpha = 0.5

	require.Len(t, ema, 4)
	assert.Equal(t, 10.0, ema[0])
	assert.InDelta(t, 10.5, ema[1], 1e-12)
	assert.InDelta(t, 11.25, ema[2], 1e-12)
	assert.InDelta(t, 12.125, ema[3], 1e-12)

	assert.Empty(t, emaSeries(nil, 3))
}

func TestMACDSeriesFlatIsZero(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10
	}
	dif, dea, bar := macdSeries(closes)
	for i := range closes {
		assert.Zero(t, dif[i])
		assert.Zero(t, dea[i])
		assert.Zero(t, bar[i])
	}
}

func TestRSIBounds(t *testing.T) {
	up := trendHistory(30, 10, 0.01)
	assert.Equal(t, 100.0, rsiAt(up, 29, 14)) // no down moves

	down := trendHistory(30, 10, -0.01)
	assert.Zero(t, rsiAt(down, 29, 14)) // no up moves

	// insufficient lookback is neutral, not extreme
	assert.Equal(t, 50.0, rsiAt(up, 10, 14))
}

func TestKDJOversoldThenCross(t *testing.T) {
	h := trendHistory(30, 100, -0.01)
	k, d, _, ok := kdjAt(h, 28)
	require.True(t, ok)
	assert.Less(t, k, 30.0)
	assert.LessOrEqual(t, k, d) // K under D in a steady decline

	// a strong up bar snaps K above D
	last := h[28].Close * 1.08
	h[29] = contracts.PriceBar{
		Date: dateAt(29), Open: h[28].Close, High: last, Low: h[28].Close,
		Close: last, Volume: 1000,
	}
	k2, d2, _, ok := kdjAt(h, 29)
	require.True(t, ok)
	assert.Greater(t, k2, d2)

	_, _, _, ok = kdjAt(h, 5)
	assert.False(t, ok)
}

func TestBollingerFlatCollapsesToPrice(t *testing.T) {
	h := flatHistory(30, 10)
	mid, upper, lower := bollingerAt(h, 29)
	assert.Equal(t, 10.0, mid)
	assert.Equal(t, 10.0, upper)
	assert.Equal(t, 10.0, lower)
}
