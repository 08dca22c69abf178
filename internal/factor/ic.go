package factor

import (
	"math"

	"github.com/montanaflynn/stats"
)

// MinICPairs is the smallest cross-section accepted for a meaningful
// information coefficient.
const MinICPairs = 10

// IC computes the Pearson information coefficient between one period's
// factor scores and the forward returns of the same symbols. Fewer
// than MinICPairs valid pairs yields 0.
func IC(scores, forwardReturns []float64) float64 {
	if len(scores) != len(forwardReturns) {
		return 0
	}
	var xs, ys []float64
	for i := range scores {
		if math.IsNaN(scores[i]) || math.IsNaN(forwardReturns[i]) {
			continue
		}
		xs = append(xs, scores[i])
		ys = append(ys, forwardReturns[i])
	}
	if len(xs) < MinICPairs {
		return 0
	}
	ic, err := stats.Correlation(xs, ys)
	if err != nil || math.IsNaN(ic) {
		return 0
	}
	return ic
}

// RollingIC computes the IC per period over aligned score and
// forward-return cross-sections.
func RollingIC(scoresByPeriod, returnsByPeriod [][]float64) []float64 {
	n := len(scoresByPeriod)
	if len(returnsByPeriod) < n {
		n = len(returnsByPeriod)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = IC(scoresByPeriod[i], returnsByPeriod[i])
	}
	return out
}

// ICIR is the information ratio of a rolling IC series: mean divided
// by sample standard deviation. Fewer than 2 observations or a flat
// series yields 0.
func ICIR(rollingICs []float64) float64 {
	if len(rollingICs) < 2 {
		return 0
	}
	mean, _ := stats.Mean(rollingICs)
	std, err := stats.StandardDeviationSample(rollingICs)
	if err != nil || std <= 0 {
		return 0
	}
	return mean / std
}
