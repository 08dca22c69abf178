package algo

import (
	"math"

	"github.com/jwchen/argus/internal/contracts"
)

// closesUpTo extracts closing prices for bars [0, idx].
func closesUpTo(h contracts.History, idx int) []float64 {
	out := make([]float64, idx+1)
	for i := 0; i <= idx; i++ {
		out[i] = h[i].Close
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdPop is the population standard deviation (divisor n).
func stdPop(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// emaSeries is the recursive exponential moving average with
// alpha = 2/(period+1), seeded with the first value.
func emaSeries(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}
	return out
}

// macdSeries computes DIF (EMA12-EMA26), DEA (EMA9 of DIF) and the
// histogram bar (DIF-DEA)*2 over the full close series.
func macdSeries(closes []float64) (dif, dea, bar []float64) {
	ema12 := emaSeries(closes, 12)
	ema26 := emaSeries(closes, 26)
	dif = make([]float64, len(closes))
	for i := range closes {
		dif[i] = ema12[i] - ema26[i]
	}
	dea = emaSeries(dif, 9)
	bar = make([]float64, len(closes))
	for i := range closes {
		bar[i] = (dif[i] - dea[i]) * 2
	}
	return dif, dea, bar
}

// rsiAt is the simple-mean RSI over the `period` changes ending at
// idx. Returns 50 with insufficient lookback and 100 when there are
// no down moves in the window.
func rsiAt(h contracts.History, idx, period int) float64 {
	if idx < period {
		return 50
	}
	var gain, loss float64
	for i := idx - period + 1; i <= idx; i++ {
		d := h[i].Close - h[i-1].Close
		if d > 0 {
			gain += d
		} else {
			loss += -d
		}
	}
	gain /= float64(period)
	loss /= float64(period)
	if loss == 0 {
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// kdjAt computes the stochastic K, D and J values at idx over a
// 9-bar RSV window, smoothed recursively with alpha = 1/3. The
// smoothing runs over a bounded trailing slice so evaluation stays
// point-in-time. ok is false when idx lacks the 9-bar lookback.
func kdjAt(h contracts.History, idx int) (k, d, j float64, ok bool) {
	const n = 9
	if idx < n {
		return 0, 0, 0, false
	}
	start := idx - n - 5
	if start < 0 {
		start = 0
	}

	const alpha = 1.0 / 3.0
	first := true
	for i := start; i <= idx; i++ {
		winStart := i - n + 1
		if winStart < start {
			winStart = start
		}
		lo, hi := h[winStart].Low, h[winStart].High
		for w := winStart + 1; w <= i; w++ {
			if h[w].Low < lo {
				lo = h[w].Low
			}
			if h[w].High > hi {
				hi = h[w].High
			}
		}
		rsv := 50.0
		if hi > lo {
			rsv = (h[i].Close - lo) / (hi - lo) * 100
		}
		if first {
			k, d = rsv, rsv
			first = false
			continue
		}
		k = (1-alpha)*k + alpha*rsv
		d = (1-alpha)*d + alpha*k
	}
	j = 3*k - 2*d
	return k, d, j, true
}

// bollingerAt returns the 20-bar middle band and the +/- 2 sigma
// bands at idx, using population standard deviation.
func bollingerAt(h contracts.History, idx int) (mid, upper, lower float64) {
	start := idx - 19
	if start < 0 {
		start = 0
	}
	window := closesUpTo(h, idx)[start:]
	mid = mean(window)
	sd := stdPop(window)
	return mid, mid + 2*sd, mid - 2*sd
}
