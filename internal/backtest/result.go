package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jwchen/argus/internal/contracts"
)

// Result accumulates the trades of one (algorithm, universe, window)
// run. Statistics are derived on demand, never cached across trade
// appends.
type Result struct {
	Algorithm      string            `json:"algorithm"`
	Start          string            `json:"start"`
	End            string            `json:"end"`
	InitialCapital decimal.Decimal   `json:"initial_capital"`
	Trades         []contracts.Trade `json:"trades"`
}

// NewResult creates an empty result for one run.
func NewResult(algorithm, start, end string, initialCapital float64) *Result {
	return &Result{
		Algorithm:      algorithm,
		Start:          start,
		End:            end,
		InitialCapital: decimal.NewFromFloat(initialCapital),
	}
}

// AddTrade appends one completed round trip.
func (r *Result) AddTrade(t contracts.Trade) {
	r.Trades = append(r.Trades, t)
}

// Statistics is the performance summary of one result.
type Statistics struct {
	TotalTrades     int     `json:"total_trades"`
	WinTrades       int     `json:"win_trades"`
	LoseTrades      int     `json:"lose_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalReturn     float64 `json:"total_return"` // additive across trades
	AvgReturn       float64 `json:"avg_return"`
	AvgWin          float64 `json:"avg_win"`
	AvgLose         float64 `json:"avg_lose"`
	MaxWin          float64 `json:"max_win"`
	MaxLose         float64 `json:"max_lose"`
	ProfitLossRatio float64 `json:"profit_loss_ratio"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	AnnualReturn    float64 `json:"annual_return"`

	FinalCapital decimal.Decimal `json:"final_capital"`
}

// Statistics computes the summary over the accumulated trades.
// Returns nil when no trades were recorded - an empty run has no
// meaningful win rate.
func (r *Result) Statistics() *Statistics {
	n := len(r.Trades)
	if n == 0 {
		return nil
	}

	s := &Statistics{TotalTrades: n}
	var winSum, loseSum float64
	for _, t := range r.Trades {
		ret := t.Return()
		s.TotalReturn += ret
		if t.IsWin() {
			s.WinTrades++
			winSum += ret
			if ret > s.MaxWin {
				s.MaxWin = ret
			}
		} else {
			s.LoseTrades++
			loseSum += ret
			if ret < s.MaxLose {
				s.MaxLose = ret
			}
		}
	}

	s.WinRate = float64(s.WinTrades) / float64(n)
	s.AvgReturn = s.TotalReturn / float64(n)
	if s.WinTrades > 0 {
		s.AvgWin = winSum / float64(s.WinTrades)
	}
	if s.LoseTrades > 0 {
		s.AvgLose = loseSum / float64(s.LoseTrades)
		if s.AvgLose != 0 {
			s.ProfitLossRatio = math.Abs(s.AvgWin / s.AvgLose)
		}
	}

	s.MaxDrawdown = maxDrawdown(r.Trades)
	s.FinalCapital = r.InitialCapital.Mul(decimal.NewFromFloat(1 + s.TotalReturn))
	s.AnnualReturn = annualize(s.TotalReturn, r.Start, r.End)
	return s
}

// maxDrawdown walks the cumulative additive return series in trade
// insertion order and tracks the largest peak-to-trough gap. The peak
// starts at the first cumulative value, so an opening loss is the
// floor to measure from, not a drawdown itself.
func maxDrawdown(trades []contracts.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	cum := trades[0].Return()
	peak := cum
	var maxDD float64
	for _, t := range trades[1:] {
		cum += t.Return()
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// annualize converts an additive total return over [start, end] into
// a compounded annual rate. A non-positive day span yields 0.
func annualize(totalReturn float64, start, end string) float64 {
	startT, err := contracts.ParseDate(start)
	if err != nil {
		return 0
	}
	endT, err := contracts.ParseDate(end)
	if err != nil {
		return 0
	}
	days := endT.Sub(startT).Hours() / 24
	if days <= 0 {
		return 0
	}
	growth := 1 + totalReturn
	if growth <= 0 {
		return -1
	}
	return math.Pow(growth, 365.25/days) - 1
}
