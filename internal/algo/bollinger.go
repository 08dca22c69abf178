package algo

import "github.com/jwchen/argus/internal/contracts"

// BollingerBounce looks for a touch of the lower band with an early
// recovery, or a cross back above the lower or middle band.
type BollingerBounce struct{}

func (BollingerBounce) Name() string  { return "bollinger_bounce" }
func (BollingerBounce) MinBars() int  { return 25 }
func (BollingerBounce) MinIndex() int { return 20 }

func (BollingerBounce) Score(h contracts.History, idx int) float64 {
	score := 0.0

	mid, _, lower := bollingerAt(h, idx)
	cur := h[idx].Close
	prev := cur
	if idx >= 1 {
		prev = h[idx-1].Close
	}

	if cur <= lower {
		score += 30
		if cur > prev {
			score += 20
		}
	}

	if prev <= lower && cur > lower {
		score += 25
	}

	if cur > mid && prev <= mid {
		score += 20
	}

	if cur > mid {
		score += 10
	}

	return score
}
