package contracts

// Snapshot is one symbol's real-time market quote plus the valuation
// fields the screening pipeline consumes. Optional vendor fields are
// pointers; nil means the vendor did not publish a value.
type Snapshot struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	PE        float64 `json:"pe"`
	PB        float64 `json:"pb"`
	MarketCap float64 `json:"market_cap"` // total, CNY
	FloatCap  float64 `json:"float_cap"`
	Turnover  float64 `json:"turnover"`
	Industry  string  `json:"industry"`

	EVEBITDA     *float64 `json:"ev_ebitda,omitempty"`
	PS           *float64 `json:"ps,omitempty"`
	OperCashFlow *float64 `json:"oper_cash_flow,omitempty"`
	SharesOut    *float64 `json:"shares_out,omitempty"`
}

// FinancialRecord carries the fundamental fields per symbol used by the
// quality and growth factor legs.
type FinancialRecord struct {
	Code          string   `json:"code"`
	ROE           *float64 `json:"roe,omitempty"`            // percent
	GrossMargin   *float64 `json:"gross_margin,omitempty"`   // percent
	DebtRatio     *float64 `json:"debt_ratio,omitempty"`     // percent
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"` // YoY percent
	ProfitGrowth  *float64 `json:"profit_growth,omitempty"`  // YoY percent
	ROEVolatility *float64 `json:"roe_volatility,omitempty"`
	ReportDate    string   `json:"report_date,omitempty"`
}

// ScoredStock is one row of a finished factor table: the snapshot it
// was scored from, the neutralized factor legs, and the composite.
type ScoredStock struct {
	Code     string  `json:"code" csv:"code"`
	Name     string  `json:"name" csv:"name"`
	Price    float64 `json:"price" csv:"price"`
	Industry string  `json:"industry" csv:"industry"`

	Value   float64 `json:"value" csv:"value"`
	Quality float64 `json:"quality" csv:"quality"`
	Growth  float64 `json:"growth" csv:"growth"`

	AlphaScore float64 `json:"alpha_score" csv:"alpha_score"`
	AlphaRank  float64 `json:"alpha_rank" csv:"alpha_rank"` // percentile, descending, near 0 = best
}

// FactorTable is the ordered output of one screening run.
type FactorTable struct {
	AsOf string        `json:"as_of"` // YYYYMMDD
	Rows []ScoredStock `json:"rows"`  // ascending AlphaRank
}

// Top returns the best-ranked fraction of the table. Fractions outside
// (0, 1] return an empty slice.
func (t *FactorTable) Top(fraction float64) []ScoredStock {
	if fraction <= 0 || fraction > 1 {
		return nil
	}
	out := make([]ScoredStock, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.AlphaRank <= fraction {
			out = append(out, row)
		}
	}
	return out
}

// Codes returns the table's symbols in rank order.
func (t *FactorTable) Codes() []string {
	codes := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		codes[i] = row.Code
	}
	return codes
}
