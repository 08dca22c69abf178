package factor

import (
	"context"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/pkg/logger"
)

// Sub-factor column names accepted by Config.SubWeights.
const (
	SubValuePE       = "value_pe"
	SubValuePB       = "value_pb"
	SubValueEVEBITDA = "value_ev_ebitda"
	SubValuePS       = "value_ps"
	SubValueCashFlow = "value_cash_flow"
	SubQualityROE    = "quality_roe"
	SubGrowthRevenue = "growth_revenue"
	SubGrowthProfit  = "growth_profit"
)

// Weights is the composite weighting over the three factor legs.
type Weights struct {
	Value   float64
	Quality float64
	Growth  float64
}

// Combine computes the composite alpha score from normalized legs.
func (w Weights) Combine(value, quality, growth float64) float64 {
	return w.Value*value + w.Quality*quality + w.Growth*growth
}

// Config controls the scoring pipeline. When SubWeights is non-empty
// it replaces the three-leg Weights with a direct weighting over named
// sub-factor columns; both schemes run through the same pipeline.
type Config struct {
	Weights    Weights
	SubWeights map[string]float64

	WinsorLower       float64
	WinsorUpper       float64
	MinIndustrySize   int
	MinRegressionRows int
	NegGrowthClip     float64 // quantile of negative growth values used as floor
}

// DefaultConfig returns the standard 25/50/25 three-leg configuration.
func DefaultConfig() Config {
	return Config{
		Weights:           Weights{Value: 0.25, Quality: 0.50, Growth: 0.25},
		WinsorLower:       0.01,
		WinsorUpper:       0.99,
		MinIndustrySize:   5,
		MinRegressionRows: 10,
		NegGrowthClip:     0.25,
	}
}

// FiveFactorSubWeights is the alternate 28/28/17/17/10 scheme over
// PE, PB, revenue growth, profit growth and ROE.
func FiveFactorSubWeights() map[string]float64 {
	return map[string]float64{
		SubValuePE:       0.28,
		SubValuePB:       0.28,
		SubGrowthRevenue: 0.17,
		SubGrowthProfit:  0.17,
		SubQualityROE:    0.10,
	}
}

// Scorer turns a market snapshot plus optional financial metrics into
// a ranked factor table.
type Scorer struct {
	cfg    Config
	logger *logger.Logger
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg Config, log *logger.Logger) *Scorer {
	if cfg.MinIndustrySize <= 0 {
		cfg.MinIndustrySize = 5
	}
	if cfg.MinRegressionRows <= 0 {
		cfg.MinRegressionRows = 10
	}
	return &Scorer{cfg: cfg, logger: log}
}

// row is one cross-sectional observation under scoring.
type row struct {
	snap contracts.Snapshot
	fin  *contracts.FinancialRecord
}

// Score runs the full pipeline for one snapshot table. Empty input
// yields an empty table; degenerate factor math falls back instead of
// failing, so the only way to get no rows out is to put none in.
func (s *Scorer) Score(ctx context.Context, asOf string, snaps []contracts.Snapshot, fins map[string]contracts.FinancialRecord) *contracts.FactorTable {
	table := &contracts.FactorTable{AsOf: asOf}
	if err := ctx.Err(); err != nil {
		s.logger.WithError(err).Warn("factor scoring aborted")
		return table
	}

	rows := s.prepareRows(snaps, fins)
	if len(rows) == 0 {
		s.logger.Warn("factor scoring skipped: no valid snapshot rows")
		return table
	}

	n := len(rows)
	industries := make([]string, n)
	logCap := make([]float64, n)
	for i, r := range rows {
		industries[i] = r.snap.Industry
		logCap[i] = math.Log(marketCap(r.snap))
	}

	cols := s.buildColumns(rows)
	value := s.valueLeg(cols, logCap, industries)
	quality := s.qualityLeg(cols, logCap, industries)
	growth := s.growthLeg(cols, logCap, industries)

	valueNorm := RankNormalize(value)
	qualityNorm := RankNormalize(quality)
	growthNorm := RankNormalize(growth)

	alpha := make([]float64, n)
	if len(s.cfg.SubWeights) > 0 {
		alpha = s.subWeightedAlpha(cols, logCap)
	} else {
		for i := 0; i < n; i++ {
			alpha[i] = s.cfg.Weights.Combine(valueNorm[i], qualityNorm[i], growthNorm[i])
		}
	}
	fillWithMean(alpha)

	ranks := descendingRank(alpha)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return alpha[order[a]] > alpha[order[b]] })

	table.Rows = make([]contracts.ScoredStock, 0, n)
	for _, i := range order {
		table.Rows = append(table.Rows, contracts.ScoredStock{
			Code:       rows[i].snap.Code,
			Name:       rows[i].snap.Name,
			Price:      rows[i].snap.Price,
			Industry:   rows[i].snap.Industry,
			Value:      zeroIfNaN(valueNorm[i]),
			Quality:    zeroIfNaN(qualityNorm[i]),
			Growth:     zeroIfNaN(growthNorm[i]),
			AlphaScore: alpha[i],
			AlphaRank:  ranks[i],
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"as_of": asOf,
		"rows":  len(table.Rows),
	}).Info("factor table scored")
	return table
}

// prepareRows applies the row-level filters: positive PE/PB, positive
// market cap, and the thin-industry exclusion.
func (s *Scorer) prepareRows(snaps []contracts.Snapshot, fins map[string]contracts.FinancialRecord) []row {
	rows := make([]row, 0, len(snaps))
	for _, snap := range snaps {
		if snap.PE <= 0 || snap.PB <= 0 {
			continue
		}
		if marketCap(snap) <= 0 {
			continue
		}
		r := row{snap: snap}
		if fin, ok := fins[snap.Code]; ok {
			f := fin
			r.fin = &f
		}
		rows = append(rows, r)
	}

	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.snap.Industry]++
	}
	kept := rows[:0]
	dropped := 0
	for _, r := range rows {
		if r.snap.Industry != "" && counts[r.snap.Industry] < s.cfg.MinIndustrySize {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		s.logger.Debugf("dropped %d rows in thin industries", dropped)
	}
	return kept
}

// buildColumns extracts the raw sub-factor columns, NaN for missing.
func (s *Scorer) buildColumns(rows []row) map[string][]float64 {
	n := len(rows)
	cols := map[string][]float64{
		SubValuePE:       nanColumn(n),
		SubValuePB:       nanColumn(n),
		SubValueEVEBITDA: nanColumn(n),
		SubValuePS:       nanColumn(n),
		SubValueCashFlow: nanColumn(n),
		SubQualityROE:    nanColumn(n),
		"quality_gross":  nanColumn(n),
		"quality_debt":   nanColumn(n),
		"quality_roevol": nanColumn(n),
		SubGrowthRevenue: nanColumn(n),
		SubGrowthProfit:  nanColumn(n),
	}

	for i, r := range rows {
		cols[SubValuePE][i] = -math.Log(r.snap.PE)
		cols[SubValuePB][i] = -math.Log(r.snap.PB)
		if v := r.snap.EVEBITDA; v != nil && *v > 0 {
			cols[SubValueEVEBITDA][i] = -math.Log(*v)
		}
		if v := r.snap.PS; v != nil && *v > 0 {
			cols[SubValuePS][i] = -math.Log(*v)
		}
		if v := r.snap.OperCashFlow; v != nil {
			cols[SubValueCashFlow][i] = *v / marketCap(r.snap)
		}
		if r.fin == nil {
			continue
		}
		if v := r.fin.ROE; v != nil {
			cols[SubQualityROE][i] = *v
		}
		if v := r.fin.GrossMargin; v != nil {
			cols["quality_gross"][i] = *v
		}
		if v := r.fin.DebtRatio; v != nil {
			cols["quality_debt"][i] = -*v
		}
		if v := r.fin.ROEVolatility; v != nil {
			cols["quality_roevol"][i] = -*v
		}
		if v := r.fin.RevenueGrowth; v != nil {
			cols[SubGrowthRevenue][i] = *v
		}
		if v := r.fin.ProfitGrowth; v != nil {
			cols[SubGrowthProfit][i] = *v
		}
	}
	return cols
}

// valueLeg winsorizes and size-neutralizes each value sub-factor,
// orthogonalizes the later ones against the first, averages, then
// industry-neutralizes.
func (s *Scorer) valueLeg(cols map[string][]float64, logCap []float64, industries []string) []float64 {
	names := []string{SubValuePE, SubValuePB, SubValueEVEBITDA, SubValuePS, SubValueCashFlow}
	var processed [][]float64
	var base []float64
	for _, name := range names {
		col := cols[name]
		if countValid(col) == 0 {
			continue
		}
		c := s.neutralizeColumn(col, logCap)
		if base == nil {
			base = c
		} else {
			c = Orthogonalize(base, c)
		}
		cols[name] = c
		processed = append(processed, c)
	}
	raw := rowMean(processed, len(logCap))
	return IndustryNeutralize(raw, industries)
}

func (s *Scorer) qualityLeg(cols map[string][]float64, logCap []float64, industries []string) []float64 {
	names := []string{SubQualityROE, "quality_gross", "quality_debt", "quality_roevol"}
	var processed [][]float64
	for _, name := range names {
		col := cols[name]
		if countValid(col) == 0 {
			continue
		}
		c := s.neutralizeColumn(col, logCap)
		cols[name] = c
		processed = append(processed, c)
	}
	if len(processed) == 0 {
		// nothing to work with: a flat zero column
		return make([]float64, len(logCap))
	}
	raw := rowMean(processed, len(logCap))
	return IndustryNeutralize(raw, industries)
}

func (s *Scorer) growthLeg(cols map[string][]float64, logCap []float64, industries []string) []float64 {
	names := []string{SubGrowthRevenue, SubGrowthProfit}
	var processed [][]float64
	for _, name := range names {
		col := cols[name]
		if countValid(col) == 0 {
			continue
		}
		c := clipNegativeTail(col, s.cfg.NegGrowthClip)
		c = s.neutralizeColumn(c, logCap)
		cols[name] = c
		processed = append(processed, c)
	}
	if len(processed) == 0 {
		return make([]float64, len(logCap))
	}
	raw := rowMean(processed, len(logCap))
	return IndustryNeutralize(raw, industries)
}

func (s *Scorer) neutralizeColumn(col, logCap []float64) []float64 {
	c := Winsorize(col, s.cfg.WinsorLower, s.cfg.WinsorUpper)
	return SizeNeutralize(c, logCap, s.cfg.MinRegressionRows)
}

// subWeightedAlpha computes the composite directly over named
// sub-factor columns, each rank-normalized first.
func (s *Scorer) subWeightedAlpha(cols map[string][]float64, logCap []float64) []float64 {
	n := len(logCap)
	alpha := make([]float64, n)
	for name, w := range s.cfg.SubWeights {
		col, ok := cols[name]
		if !ok || countValid(col) == 0 {
			continue
		}
		norm := RankNormalize(col)
		for i := 0; i < n; i++ {
			if math.IsNaN(alpha[i]) {
				continue
			}
			if math.IsNaN(norm[i]) {
				alpha[i] = math.NaN()
				continue
			}
			alpha[i] += w * norm[i]
		}
	}
	return alpha
}

// clipNegativeTail floors negative values at the q-quantile of the
// negative subset, bounding downside without discarding the sign.
func clipNegativeTail(col []float64, q float64) []float64 {
	var negs []float64
	for _, v := range col {
		if !math.IsNaN(v) && v < 0 {
			negs = append(negs, v)
		}
	}
	out := clone(col)
	if len(negs) == 0 {
		return out
	}
	sort.Float64s(negs)
	floor := quantile(negs, q)
	for i, v := range out {
		if !math.IsNaN(v) && v < floor {
			out[i] = floor
		}
	}
	return out
}

// descendingRank assigns percentile ranks over scores with the highest
// score ranked first; ties keep original ordering.
func descendingRank(scores []float64) []float64 {
	n := len(scores)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	ranks := make([]float64, n)
	for pos, i := range order {
		ranks[i] = float64(pos+1) / float64(n)
	}
	return ranks
}

// fillWithMean replaces NaN entries in place with the column mean
// (zero if the whole column is missing).
func fillWithMean(col []float64) {
	valid := compact(col)
	mean := 0.0
	if len(valid) > 0 {
		mean, _ = stats.Mean(valid)
	}
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = mean
		}
	}
}

// rowMean averages the available columns per row; rows missing in
// every column stay NaN.
func rowMean(columns [][]float64, n int) []float64 {
	out := nanColumn(n)
	for i := 0; i < n; i++ {
		sum, cnt := 0.0, 0
		for _, col := range columns {
			if !math.IsNaN(col[i]) {
				sum += col[i]
				cnt++
			}
		}
		if cnt > 0 {
			out[i] = sum / float64(cnt)
		}
	}
	return out
}

// DynamicWeights sizes the three legs by inverse realized volatility
// of their return series (risk parity). Degenerate input falls back
// to the default static weights.
func DynamicWeights(valueRets, qualityRets, growthRets []float64) Weights {
	def := DefaultConfig().Weights
	vols := make([]float64, 3)
	for i, rets := range [][]float64{valueRets, qualityRets, growthRets} {
		if len(rets) < 2 {
			return def
		}
		std, err := stats.StandardDeviationSample(rets)
		if err != nil || std <= 0 {
			return def
		}
		vols[i] = std
	}
	inv := []float64{1 / vols[0], 1 / vols[1], 1 / vols[2]}
	total := inv[0] + inv[1] + inv[2]
	return Weights{Value: inv[0] / total, Quality: inv[1] / total, Growth: inv[2] / total}
}

func marketCap(s contracts.Snapshot) float64 {
	if s.MarketCap > 0 {
		return s.MarketCap
	}
	if s.SharesOut != nil && *s.SharesOut > 0 && s.Price > 0 {
		return *s.SharesOut * s.Price
	}
	return 0
}

func countValid(col []float64) int {
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
