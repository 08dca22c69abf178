package algo

import "github.com/jwchen/argus/internal/contracts"

// Momentum rewards sustained upward price action: positive short-term
// returns, bullish moving-average ordering, low realized volatility
// and a healthy (not manic) volume surge.
type Momentum struct{}

func (Momentum) Name() string  { return "momentum" }
func (Momentum) MinBars() int  { return 20 }
func (Momentum) MinIndex() int { return 10 }

func (Momentum) Score(h contracts.History, idx int) float64 {
	score := 0.0

	cur := h[idx].Close
	prev1 := h[idx-1].Close
	prev5 := h[max(0, idx-5)].Close
	prev10 := h[max(0, idx-10)].Close

	if prev1 > 0 {
		daily := (cur - prev1) / prev1
		if daily > 0 {
			score += 10
		} else {
			score -= 5
		}
	}

	if prev5 > 0 {
		ret5 := (cur - prev5) / prev5
		switch {
		case ret5 > 0.03:
			score += 15
		case ret5 > 0:
			score += 10
		}
	}

	if prev10 > 0 {
		ret10 := (cur - prev10) / prev10
		switch {
		case ret10 > 0.05:
			score += 20
		case ret10 > 0:
			score += 10
		}
	}

	closes := closesUpTo(h, idx)
	ma5 := mean(closes[max(0, idx-4):])
	ma10 := mean(closes[max(0, idx-9):])
	ma20 := mean(closes[max(0, idx-19):])
	if cur > ma5 {
		score += 10
	}
	if ma5 > ma10 {
		score += 10
	}
	if ma10 > ma20 {
		score += 10
	}

	if prev1 > 0 {
		window := closes[max(0, idx-19):]
		changes := make([]float64, 0, len(window)-1)
		for i := 1; i < len(window); i++ {
			if window[i-1] != 0 {
				changes = append(changes, (window[i]-window[i-1])/window[i-1])
			}
		}
		vol := stdPop(changes)
		switch {
		case vol < 0.03:
			score += 10
		case vol < 0.05:
			score += 5
		}
	}

	volRatio := 1.0
	if idx > 0 {
		var prevVols []float64
		for i := max(0, idx-9); i < idx; i++ {
			prevVols = append(prevVols, float64(h[i].Volume))
		}
		if m := mean(prevVols); m > 0 {
			volRatio = float64(h[idx].Volume) / m
		}
	}
	switch {
	case volRatio >= 1.5 && volRatio <= 3:
		score += 15
	case volRatio > 3:
		score += 10
	}

	return score
}
