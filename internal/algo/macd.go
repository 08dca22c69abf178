package algo

import "github.com/jwchen/argus/internal/contracts"

// MACDCross looks for the DIF line crossing above its DEA signal
// line, better above the zero axis, with a rising histogram.
type MACDCross struct{}

func (MACDCross) Name() string  { return "macd_cross" }
func (MACDCross) MinBars() int  { return 30 }
func (MACDCross) MinIndex() int { return 26 }

func (MACDCross) Score(h contracts.History, idx int) float64 {
	score := 0.0

	dif, dea, bar := macdSeries(closesUpTo(h, idx))
	n := len(dif)

	if n >= 2 {
		if dif[n-2] <= dea[n-2] && dif[n-1] > dea[n-1] {
			score += 30
			if dif[n-1] > 0 {
				score += 20
			}
		}
		if bar[n-1] > 0 && bar[n-1] > bar[n-2] {
			score += 15
		}
	}

	if n >= 1 && dif[n-1] > 0 {
		score += 10
	}

	return score
}
