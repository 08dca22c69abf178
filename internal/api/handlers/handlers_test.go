package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwchen/argus/internal/backtest"
	"github.com/jwchen/argus/internal/contracts"
	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/pkg/config"
	"github.com/jwchen/argus/pkg/logger"
)

func TestScreenHandlerBeforeFirstPublish(t *testing.T) {
	h := NewScreenHandler(&screen.Latest{}, 0.10, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetTable(rec, httptest.NewRequest("GET", "/api/v1/screen/table", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScreenHandlerTop(t *testing.T) {
	latest := &screen.Latest{}
	latest.Set(&contracts.FactorTable{
		AsOf: "20240104",
		Rows: []contracts.ScoredStock{
			{Code: "600519", AlphaRank: 0.05},
			{Code: "000858", AlphaRank: 0.50},
		},
	})
	h := NewScreenHandler(latest, 0.10, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetTop(rec, httptest.NewRequest("GET", "/api/v1/screen/top", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		AsOf string                  `json:"as_of"`
		Rows []contracts.ScoredStock `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "20240104", payload.AsOf)
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "600519", payload.Rows[0].Code)

	// explicit fraction widens the cut
	rec = httptest.NewRecorder()
	h.GetTop(rec, httptest.NewRequest("GET", "/api/v1/screen/top?fraction=0.9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Rows, 2)

	rec = httptest.NewRecorder()
	h.GetTop(rec, httptest.NewRequest("GET", "/api/v1/screen/top?fraction=2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// stubStore serves a fixed three-day history for every code.
type stubStore struct{}

func (stubStore) SaveBars(context.Context, string, contracts.History) error { return nil }

func (stubStore) GetHistory(_ context.Context, _ string, _, _ string) (contracts.History, error) {
	return contracts.History{
		{Date: "20240102", Open: 9.8, High: 10.2, Low: 9.7, Close: 10.0, Volume: 1000},
		{Date: "20240103", Open: 11.0, High: 11.5, Low: 10.9, Close: 11.0, Volume: 1000},
		{Date: "20240104", Open: 9.0, High: 9.5, Low: 8.8, Close: 9.2, Volume: 1000},
	}, nil
}

func (stubStore) Codes(context.Context) ([]string, error) { return []string{"600519"}, nil }

type stubCalendar struct{}

func (stubCalendar) FetchCalendar(_ context.Context, start, end string) (contracts.Calendar, error) {
	return contracts.Calendar{"20240102", "20240103", "20240104"}.Span(start, end), nil
}

func newBacktestHandler() *BacktestHandler {
	defaults := config.BacktestConfig{InitialCapital: 100000, TopN: 10, BestStrategyBy: "total_return"}
	return NewBacktestHandler(stubStore{}, stubCalendar{}, backtest.NewEngine(logger.NewNop()), defaults, logger.NewNop())
}

func TestBacktestHandlerValidation(t *testing.T) {
	h := newBacktestHandler()

	rec := httptest.NewRecorder()
	h.RunBacktest(rec, httptest.NewRequest("POST", "/api/v1/backtest", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.RunBacktest(rec, httptest.NewRequest("POST", "/api/v1/backtest",
		strings.NewReader(`{"start":"20240301","end":"20240101"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.RunBacktest(rec, httptest.NewRequest("POST", "/api/v1/backtest",
		strings.NewReader(`{"algorithm":"nope","start":"20240102","end":"20240104"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBacktestHandlerRunsFamily(t *testing.T) {
	h := newBacktestHandler()

	rec := httptest.NewRecorder()
	h.RunBacktest(rec, httptest.NewRequest("POST", "/api/v1/backtest",
		strings.NewReader(`{"start":"20240102","end":"20240104"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp backtestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 7)
	// 3 bars is under every algorithm's minimum history: no trades
	for _, run := range resp.Results {
		assert.Zero(t, run.Trades, run.Algorithm)
	}
	assert.Empty(t, resp.Best)
}

func TestBacktestHandlerGetAlgorithms(t *testing.T) {
	h := newBacktestHandler()

	rec := httptest.NewRecorder()
	h.GetAlgorithms(rec, httptest.NewRequest("GET", "/api/v1/algorithms", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Algorithms []string `json:"algorithms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Algorithms, 7)
	assert.Contains(t, resp.Algorithms, "macd_cross")
}
