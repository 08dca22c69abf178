package contracts

import (
	"sort"
	"time"
)

// DateLayout is the wire format for trading dates (YYYYMMDD).
const DateLayout = "20060102"

// PriceBar is one symbol's OHLCV record for one trading date.
type PriceBar struct {
	Date   string `json:"date"` // YYYYMMDD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// History is an ascending date-ordered sequence of bars for one symbol.
// No duplicate dates.
type History []PriceBar

// IndexOf returns the index of the bar on the given date.
func (h History) IndexOf(date string) (int, bool) {
	i := sort.Search(len(h), func(i int) bool { return h[i].Date >= date })
	if i < len(h) && h[i].Date == date {
		return i, true
	}
	return 0, false
}

// IndexAtOrBefore returns the index of the last bar on or before date.
func (h History) IndexAtOrBefore(date string) (int, bool) {
	i := sort.Search(len(h), func(i int) bool { return h[i].Date > date })
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

// LastDate returns the most recent bar date, or "" for an empty history.
func (h History) LastDate() string {
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1].Date
}

// PricePanel maps symbol to its ordered bar history. It is read-only
// during a backtest run.
type PricePanel map[string]History

// Symbols returns the panel's symbols in deterministic order.
func (p PricePanel) Symbols() []string {
	symbols := make([]string, 0, len(p))
	for code := range p {
		symbols = append(symbols, code)
	}
	sort.Strings(symbols)
	return symbols
}

// Calendar is an ascending sequence of valid trading dates (YYYYMMDD).
type Calendar []string

// Span returns the calendar restricted to [start, end].
func (c Calendar) Span(start, end string) Calendar {
	lo := sort.SearchStrings(c, start)
	hi := sort.Search(len(c), func(i int) bool { return c[i] > end })
	if lo >= hi {
		return Calendar{}
	}
	return c[lo:hi]
}

// Latest returns the last trading date, or "" for an empty calendar.
func (c Calendar) Latest() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// ParseDate converts a YYYYMMDD string into a time.Time.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// FormatDate converts a time.Time into a YYYYMMDD string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
