package algo

import "github.com/jwchen/argus/internal/contracts"

// MeanReversion hunts oversold bounces: deep negative short-term
// returns, a large discount to the 20-day average and oversold RSI.
type MeanReversion struct{}

func (MeanReversion) Name() string  { return "mean_reversion" }
func (MeanReversion) MinBars() int  { return 20 }
func (MeanReversion) MinIndex() int { return 10 }

func (MeanReversion) Score(h contracts.History, idx int) float64 {
	score := 0.0

	cur := h[idx].Close
	prev1 := h[idx-1].Close
	prev5 := h[max(0, idx-5)].Close

	if prev1 > 0 {
		daily := (cur - prev1) / prev1
		switch {
		case daily < -0.03:
			score += 20
		case daily < -0.02:
			score += 15
		case daily < -0.01:
			score += 10
		}
	}

	if prev5 > 0 {
		ret5 := (cur - prev5) / prev5
		switch {
		case ret5 < -0.08:
			score += 25
		case ret5 < -0.05:
			score += 20
		}
	}

	closes := closesUpTo(h, idx)
	ma20 := mean(closes[max(0, idx-19):])
	if ma20 > 0 {
		distance := (cur - ma20) / ma20
		switch {
		case distance < -0.08:
			score += 25
		case distance < -0.05:
			score += 20
		case distance < -0.03:
			score += 15
		}
	}

	rsi := rsiAt(h, idx, 14)
	switch {
	case rsi < 30:
		score += 20
	case rsi < 40:
		score += 10
	}

	return score
}
