// Package factor implements the cross-sectional multi-factor scoring
// pipeline: winsorization, industry and size neutralization, factor
// orthogonalization, rank normalization, and the composite alpha score.
//
// Every preprocessing function is a pure transform over a column of
// float64 with math.NaN() as the missing-value marker. Degenerate
// input (too few rows, zero variance) never produces an error; the
// functions fall back to the unmodified or centered column instead.
package factor

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Winsorize clips values outside the [lower, upper] empirical quantile
// range to the quantile boundary. Quantiles are computed over
// non-missing values only; NaN entries pass through unchanged.
func Winsorize(values []float64, lower, upper float64) []float64 {
	valid := compact(values)
	if len(valid) == 0 {
		return clone(values)
	}
	sort.Float64s(valid)
	lo := quantile(valid, lower)
	hi := quantile(valid, upper)

	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// WinsorizeSigma clips values beyond k standard deviations from the
// mean of the non-missing values.
func WinsorizeSigma(values []float64, k float64) []float64 {
	valid := compact(values)
	if len(valid) < 2 {
		return clone(values)
	}
	mean, _ := stats.Mean(valid)
	std, _ := stats.StandardDeviationSample(valid)
	lo := mean - k*std
	hi := mean + k*std

	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// IndustryNeutralize z-scores values within each distinct group. When
// a group's standard deviation is zero or undefined (single member),
// the result is value minus group mean. Group-size policy (dropping
// thin industries) is the caller's job, not this function's.
func IndustryNeutralize(values []float64, groups []string) []float64 {
	out := clone(values)
	if len(values) != len(groups) {
		return out
	}

	byGroup := make(map[string][]int)
	for i, g := range groups {
		byGroup[g] = append(byGroup[g], i)
	}

	for _, idxs := range byGroup {
		var members []float64
		for _, i := range idxs {
			if !math.IsNaN(values[i]) {
				members = append(members, values[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		mean, _ := stats.Mean(members)
		std := 0.0
		if len(members) > 1 {
			std, _ = stats.StandardDeviationSample(members)
		}
		for _, i := range idxs {
			if math.IsNaN(values[i]) {
				continue
			}
			if std > 0 {
				out[i] = (values[i] - mean) / std
			} else {
				out[i] = values[i] - mean
			}
		}
	}
	return out
}

// SizeNeutralize removes the market-cap effect from values by OLS
// regression on logMktCap, returning residuals for rows where both are
// present. Rows lacking either input keep their original value. With
// fewer than minRows valid rows (or a zero-variance predictor) the
// column is returned unchanged.
func SizeNeutralize(values, logMktCap []float64, minRows int) []float64 {
	out := clone(values)
	if len(values) != len(logMktCap) {
		return out
	}

	var idxs []int
	var xs, ys []float64
	for i := range values {
		if math.IsNaN(values[i]) || math.IsNaN(logMktCap[i]) {
			continue
		}
		idxs = append(idxs, i)
		xs = append(xs, logMktCap[i])
		ys = append(ys, values[i])
	}
	if len(idxs) < minRows {
		return out
	}

	alpha, beta, ok := olsFit(xs, ys)
	if !ok {
		return out
	}
	for j, i := range idxs {
		out[i] = ys[j] - (alpha + beta*xs[j])
	}
	return out
}

// Orthogonalize residualizes secondary against primary (single
// predictor with intercept), adding back secondary's own mean so the
// column center is preserved. With fewer than 2 valid rows or a
// zero-variance primary, secondary is returned unchanged.
func Orthogonalize(primary, secondary []float64) []float64 {
	out := clone(secondary)
	if len(primary) != len(secondary) {
		return out
	}

	var idxs []int
	var xs, ys []float64
	for i := range secondary {
		if math.IsNaN(primary[i]) || math.IsNaN(secondary[i]) {
			continue
		}
		idxs = append(idxs, i)
		xs = append(xs, primary[i])
		ys = append(ys, secondary[i])
	}
	if len(idxs) < 2 {
		return out
	}

	alpha, beta, ok := olsFit(xs, ys)
	if !ok {
		return out
	}
	yMean, _ := stats.Mean(ys)
	for j, i := range idxs {
		out[i] = ys[j] - (alpha + beta*xs[j]) + yMean
	}
	return out
}

// FillMissingByGroup replaces NaN entries with their group mean,
// falling back to the overall column mean for groups with no data.
func FillMissingByGroup(values []float64, groups []string) []float64 {
	out := clone(values)
	if len(values) != len(groups) {
		return out
	}

	valid := compact(values)
	if len(valid) == 0 {
		return out
	}
	overall, _ := stats.Mean(valid)

	groupMean := make(map[string]float64)
	groupBuf := make(map[string][]float64)
	for i, g := range groups {
		if !math.IsNaN(values[i]) {
			groupBuf[g] = append(groupBuf[g], values[i])
		}
	}
	for g, buf := range groupBuf {
		m, _ := stats.Mean(buf)
		groupMean[g] = m
	}

	for i, v := range values {
		if !math.IsNaN(v) {
			continue
		}
		if m, ok := groupMean[groups[i]]; ok {
			out[i] = m
		} else {
			out[i] = overall
		}
	}
	return out
}

// RankNormalize maps values to percentile rank in [0,1] (average rank
// for ties), rescaled to [-1,1]. NaN entries pass through.
func RankNormalize(values []float64) []float64 {
	ranks := rankPct(values, true)
	out := make([]float64, len(values))
	for i, r := range ranks {
		if math.IsNaN(r) {
			out[i] = math.NaN()
			continue
		}
		out[i] = r*2 - 1
	}
	return out
}

// rankPct computes average-tie percentile ranks over the non-missing
// values: rank/n with n the valid count. ascending=false ranks the
// highest value first.
func rankPct(values []float64, ascending bool) []float64 {
	out := make([]float64, len(values))
	var idxs []int
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
		} else {
			idxs = append(idxs, i)
		}
	}
	n := len(idxs)
	if n == 0 {
		return out
	}

	sort.SliceStable(idxs, func(a, b int) bool {
		if ascending {
			return values[idxs[a]] < values[idxs[b]]
		}
		return values[idxs[a]] > values[idxs[b]]
	})

	// average ranks across tied runs
	for start := 0; start < n; {
		end := start
		for end+1 < n && values[idxs[end+1]] == values[idxs[start]] {
			end++
		}
		avg := float64(start+end+2) / 2.0 // 1-based ranks averaged
		for k := start; k <= end; k++ {
			out[idxs[k]] = avg / float64(n)
		}
		start = end + 1
	}
	return out
}

// quantile returns the nearest-rank q-quantile of an ascending-sorted
// non-empty slice. Nearest-rank keeps Winsorize idempotent: clipping
// to an order statistic leaves that statistic in place.
func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	rank := int(math.Ceil(q * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// olsFit returns intercept and slope for y on x. ok is false when the
// predictor has (near-)zero variance.
func olsFit(xs, ys []float64) (alpha, beta float64, ok bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, false
	}
	xMean, _ := stats.Mean(xs)
	yMean, _ := stats.Mean(ys)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - xMean
		sxx += dx * dx
		sxy += dx * (ys[i] - yMean)
	}
	if sxx < 1e-12 {
		return 0, 0, false
	}
	beta = sxy / sxx
	alpha = yMean - beta*xMean
	return alpha, beta, true
}

func clone(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

func compact(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
