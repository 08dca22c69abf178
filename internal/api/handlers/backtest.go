package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jwchen/argus/internal/algo"
	"github.com/jwchen/argus/internal/backtest"
	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/pkg/config"
	"github.com/jwchen/argus/pkg/logger"
)

// BacktestHandler runs backtests over stored bars on demand.
type BacktestHandler struct {
	prices   contracts.PriceStore
	calendar contracts.CalendarFeed
	engine   *backtest.Engine
	defaults config.BacktestConfig
	logger   *logger.Logger
}

// NewBacktestHandler creates a backtest handler.
func NewBacktestHandler(prices contracts.PriceStore, calendar contracts.CalendarFeed, engine *backtest.Engine, defaults config.BacktestConfig, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		prices:   prices,
		calendar: calendar,
		engine:   engine,
		defaults: defaults,
		logger:   log,
	}
}

// GetAlgorithms lists the strategy family.
// GET /api/v1/algorithms
func (h *BacktestHandler) GetAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"algorithms": algo.Names()})
}

type backtestRequest struct {
	Algorithm string   `json:"algorithm"` // empty = run the whole family
	Codes     []string `json:"codes"`     // empty = every stored symbol
	Start     string   `json:"start"`
	End       string   `json:"end"`
	TopN      int      `json:"top_n"`
}

type backtestResponse struct {
	Best    string         `json:"best,omitempty"`
	Results []algorithmRun `json:"results"`
}

type algorithmRun struct {
	Algorithm string               `json:"algorithm"`
	Trades    int                  `json:"trades"`
	Stats     *backtest.Statistics `json:"stats,omitempty"`
}

// RunBacktest runs one algorithm, or the whole family, over stored
// bars in [start, end].
// POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Start == "" || req.End == "" || req.Start > req.End {
		writeError(w, http.StatusBadRequest, "start and end must be YYYYMMDD with start <= end")
		return
	}
	if req.TopN <= 0 {
		req.TopN = h.defaults.TopN
	}

	codes := req.Codes
	if len(codes) == 0 {
		stored, err := h.prices.Codes(ctx)
		if err != nil {
			h.logger.WithError(err).Error("backtest: listing stored codes failed")
			writeError(w, http.StatusInternalServerError, "price store unavailable")
			return
		}
		codes = stored
	}
	if len(codes) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no symbols to backtest")
		return
	}

	panel := make(contracts.PricePanel, len(codes))
	for _, code := range codes {
		bars, err := h.prices.GetHistory(ctx, code, req.Start, req.End)
		if err != nil {
			h.logger.WithError(err).Warnf("backtest: history load failed for %s", code)
			continue
		}
		if len(bars) > 0 {
			panel[code] = bars
		}
	}

	cal, err := h.calendar.FetchCalendar(ctx, req.Start, req.End)
	if err != nil {
		h.logger.WithError(err).Error("backtest: calendar feed failed")
		writeError(w, http.StatusBadGateway, "trading calendar unavailable")
		return
	}

	in := backtest.RunInput{
		Panel:          panel,
		Calendar:       cal,
		Start:          req.Start,
		End:            req.End,
		TopN:           req.TopN,
		InitialCapital: h.defaults.InitialCapital,
	}

	var results []*backtest.Result
	if req.Algorithm != "" {
		a, ok := algo.ByName(req.Algorithm)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown algorithm "+req.Algorithm)
			return
		}
		in.Algorithm = a
		res, err := h.engine.Run(ctx, in)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results = []*backtest.Result{res}
	} else {
		results, err = h.engine.RunAll(ctx, in)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	resp := backtestResponse{Results: make([]algorithmRun, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, algorithmRun{
			Algorithm: res.Algorithm,
			Trades:    len(res.Trades),
			Stats:     res.Statistics(),
		})
	}
	if best := backtest.Best(results, h.defaults.BestStrategyBy); best != nil {
		resp.Best = best.Algorithm
	}
	writeJSON(w, http.StatusOK, resp)
}
