package backtest

// Best-strategy preference when the win-rate winner and the
// total-return winner disagree.
const (
	PreferTotalReturn = "total_return"
	PreferWinRate     = "win_rate"
)

// Comparison pairs one result with its computed statistics.
type Comparison struct {
	Result *Result
	Stats  *Statistics
}

// Compare computes statistics for each result, dropping runs with no
// trades.
func Compare(results []*Result) []Comparison {
	out := make([]Comparison, 0, len(results))
	for _, r := range results {
		if stats := r.Statistics(); stats != nil {
			out = append(out, Comparison{Result: r, Stats: stats})
		}
	}
	return out
}

// Best picks the winning strategy: when the same algorithm tops both
// win rate and total return it is the unambiguous choice, otherwise
// preferBy breaks the tie (PreferTotalReturn when unset).
func Best(results []*Result, preferBy string) *Result {
	comps := Compare(results)
	if len(comps) == 0 {
		return nil
	}

	byWinRate := comps[0]
	byReturn := comps[0]
	for _, c := range comps[1:] {
		if c.Stats.WinRate > byWinRate.Stats.WinRate {
			byWinRate = c
		}
		if c.Stats.TotalReturn > byReturn.Stats.TotalReturn {
			byReturn = c
		}
	}

	if byWinRate.Result.Algorithm == byReturn.Result.Algorithm {
		return byReturn.Result
	}
	if preferBy == PreferWinRate {
		return byWinRate.Result
	}
	return byReturn.Result
}
