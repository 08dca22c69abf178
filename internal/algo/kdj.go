package algo

import "github.com/jwchen/argus/internal/contracts"

// KDJCross looks for a stochastic K-over-D golden cross in oversold
// territory, with extra weight on very low K and J readings.
type KDJCross struct{}

func (KDJCross) Name() string  { return "kdj_cross" }
func (KDJCross) MinBars() int  { return 20 }
func (KDJCross) MinIndex() int { return 14 }

func (KDJCross) Score(h contracts.History, idx int) float64 {
	score := 0.0

	k, d, j, ok := kdjAt(h, idx)
	if !ok {
		return 0
	}

	if kPrev, dPrev, _, okPrev := kdjAt(h, idx-1); okPrev {
		if kPrev <= dPrev && k > d {
			score += 25
			switch {
			case k < 30:
				score += 20
			case k < 40:
				score += 10
			}
		}
	}

	switch {
	case k < 20:
		score += 15
	case k < 30:
		score += 10
	}

	switch {
	case j < 0:
		score += 20
	case j < 10:
		score += 10
	}

	return score
}
