package algo

import "github.com/jwchen/argus/internal/contracts"

// TripleIndicator sums reduced MACD, RSI and Bollinger sub-scores and
// pays a resonance bonus when all three fire at once.
type TripleIndicator struct{}

func (TripleIndicator) Name() string  { return "triple_indicator" }
func (TripleIndicator) MinBars() int  { return 30 }
func (TripleIndicator) MinIndex() int { return 26 }

func (TripleIndicator) Score(h contracts.History, idx int) float64 {
	macd := tripleMACDScore(h, idx)
	rsi := tripleRSIScore(h, idx)
	boll := tripleBollScore(h, idx)

	score := macd + rsi + boll
	if macd > 20 && rsi > 15 && boll > 15 {
		score += 30
	}
	return score
}

func tripleMACDScore(h contracts.History, idx int) float64 {
	dif, dea, _ := macdSeries(closesUpTo(h, idx))
	n := len(dif)
	if n < 2 {
		return 0
	}
	score := 0.0
	if dif[n-2] <= dea[n-2] && dif[n-1] > dea[n-1] {
		score += 20
		if dif[n-1] > 0 {
			score += 10
		}
	}
	return score
}

func tripleRSIScore(h contracts.History, idx int) float64 {
	if idx < 14 {
		return 0
	}
	rsi := rsiAt(h, idx, 14)
	switch {
	case rsi < 30:
		return 20
	case rsi < 40:
		return 10
	}
	return 0
}

func tripleBollScore(h contracts.History, idx int) float64 {
	_, _, lower := bollingerAt(h, idx)
	if h[idx].Close <= lower {
		return 20
	}
	return 0
}
