// Package algo implements the short-horizon signal algorithm family.
// Each variant scores one symbol's bar history at a given index using
// only bars up to and including that index, so a score computed during
// a backtest can never see the future.
package algo

import (
	"sort"

	"github.com/jwchen/argus/internal/contracts"
)

// Algorithm is the common contract of the strategy family. The set of
// implementations is closed; reporting code may switch over Name()
// exhaustively.
type Algorithm interface {
	// Name is the stable identifier used in CLI flags and results.
	Name() string
	// MinBars is the shortest history the algorithm will score.
	MinBars() int
	// MinIndex is the earliest evaluation index with enough lookback.
	MinIndex() int
	// Score rates h at index idx; higher is more attractive. Bars
	// after idx must not influence the result.
	Score(h contracts.History, idx int) float64
}

// Candidate is one scored symbol.
type Candidate struct {
	Code  string  `json:"code"`
	Score float64 `json:"score"`
}

// RankCandidates scores every symbol in the panel that has a bar on
// asOf and sufficient history, returning candidates in descending
// score order. Ties keep symbol order, so results are deterministic.
func RankCandidates(a Algorithm, panel contracts.PricePanel, asOf string) []Candidate {
	var out []Candidate
	for _, code := range panel.Symbols() {
		h := panel[code]
		if len(h) < a.MinBars() {
			continue
		}
		idx, ok := h.IndexOf(asOf)
		if !ok || idx < a.MinIndex() {
			continue
		}
		out = append(out, Candidate{Code: code, Score: a.Score(h, idx)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SelectStocks returns the top-n symbol codes for one date.
func SelectStocks(a Algorithm, panel contracts.PricePanel, asOf string, topN int) []string {
	ranked := RankCandidates(a, panel, asOf)
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	codes := make([]string, len(ranked))
	for i, c := range ranked {
		codes[i] = c.Code
	}
	return codes
}

// All returns every strategy in the family.
func All() []Algorithm {
	return []Algorithm{
		Momentum{},
		MeanReversion{},
		Breakout{},
		MACDCross{},
		KDJCross{},
		BollingerBounce{},
		TripleIndicator{},
	}
}

// ByName looks up a strategy by its identifier.
func ByName(name string) (Algorithm, bool) {
	for _, a := range All() {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Names lists the identifiers of the full family.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name()
	}
	return names
}
