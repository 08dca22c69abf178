package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHistory() History {
	return History{
		{Date: "20240102", Open: 10.0, High: 10.5, Low: 9.8, Close: 10.2, Volume: 1000},
		{Date: "20240103", Open: 10.2, High: 10.8, Low: 10.1, Close: 10.6, Volume: 1200},
		{Date: "20240104", Open: 10.6, High: 10.7, Low: 10.0, Close: 10.1, Volume: 900},
	}
}

func TestHistoryIndexOf(t *testing.T) {
	h := testHistory()

	tests := []struct {
		date    string
		wantIdx int
		wantOK  bool
	}{
		{"20240102", 0, true},
		{"20240104", 2, true},
		{"20240105", 0, false},
		{"20240101", 0, false},
	}

	for _, tt := range tests {
		idx, ok := h.IndexOf(tt.date)
		assert.Equal(t, tt.wantOK, ok, "date %s", tt.date)
		if ok {
			assert.Equal(t, tt.wantIdx, idx, "date %s", tt.date)
		}
	}
}

func TestHistoryIndexAtOrBefore(t *testing.T) {
	h := testHistory()

	idx, ok := h.IndexAtOrBefore("20240103")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// weekend date falls back to the prior bar
	idx, ok = h.IndexAtOrBefore("20240106")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = History{}.IndexAtOrBefore("20240103")
	assert.False(t, ok)

	_, ok = h.IndexAtOrBefore("20240101")
	assert.False(t, ok)
}

func TestCalendarSpan(t *testing.T) {
	cal := Calendar{"20240102", "20240103", "20240104", "20240105", "20240108"}

	assert.Equal(t, Calendar{"20240103", "20240104", "20240105"}, cal.Span("20240103", "20240105"))
	assert.Equal(t, cal, cal.Span("20240101", "20240131"))
	assert.Empty(t, cal.Span("20240110", "20240120"))
	assert.Equal(t, "20240108", cal.Latest())
	assert.Equal(t, "", Calendar{}.Latest())
}

func TestPricePanelSymbols(t *testing.T) {
	panel := PricePanel{
		"600519": testHistory(),
		"000001": testHistory(),
		"300750": testHistory(),
	}
	assert.Equal(t, []string{"000001", "300750", "600519"}, panel.Symbols())
}

func TestTradeReturn(t *testing.T) {
	tr := Trade{Code: "600519", BuyDate: "20240102", BuyPrice: 10.0, SellDate: "20240103", SellPrice: 11.0}
	assert.InDelta(t, 0.10, tr.Return(), 1e-12)
	assert.True(t, tr.IsWin())

	loss := Trade{BuyPrice: 11.0, SellPrice: 9.0}
	assert.InDelta(t, -2.0/11.0, loss.Return(), 1e-12)
	assert.False(t, loss.IsWin())

	// a zero entry price never divides
	assert.Zero(t, Trade{BuyPrice: 0, SellPrice: 5}.Return())
}

func TestFactorTableTop(t *testing.T) {
	table := &FactorTable{
		AsOf: "20240104",
		Rows: []ScoredStock{
			{Code: "600519", AlphaRank: 0.05},
			{Code: "000858", AlphaRank: 0.10},
			{Code: "300750", AlphaRank: 0.40},
			{Code: "000001", AlphaRank: 0.90},
		},
	}

	top := table.Top(0.10)
	require.Len(t, top, 2)
	assert.Equal(t, "600519", top[0].Code)
	assert.Equal(t, "000858", top[1].Code)

	assert.Empty(t, table.Top(0))
	assert.Empty(t, table.Top(1.5))
	assert.Equal(t, []string{"600519", "000858", "300750", "000001"}, table.Codes())
}
