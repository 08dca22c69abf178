package algo

import "github.com/jwchen/argus/internal/contracts"

// Breakout rewards closes punching through the prior 20-bar high on a
// strong day with elevated volume.
type Breakout struct{}

func (Breakout) Name() string  { return "breakout" }
func (Breakout) MinBars() int  { return 30 }
func (Breakout) MinIndex() int { return 20 }

func (Breakout) Score(h contracts.History, idx int) float64 {
	score := 0.0

	cur := h[idx]
	prev1 := h[idx-1].Close
	start := max(0, idx-20)

	high20 := h[start].High
	var volSum float64
	for i := start; i < idx; i++ {
		if h[i].High > high20 {
			high20 = h[i].High
		}
		volSum += float64(h[i].Volume)
	}

	if cur.Close > high20 {
		score += 30
	}
	if cur.High > high20 {
		score += 20
	}

	if prev1 > 0 {
		daily := (cur.Close - prev1) / prev1
		switch {
		case daily > 0.03:
			score += 20
		case daily > 0.02:
			score += 15
		}
	}

	volRatio := 1.0
	if n := idx - start; n > 0 {
		if m := volSum / float64(n); m > 0 {
			volRatio = float64(cur.Volume) / m
		}
	}
	switch {
	case volRatio > 2:
		score += 25
	case volRatio > 1.5:
		score += 15
	}

	return score
}
