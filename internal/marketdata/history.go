package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jwchen/argus/internal/contracts"
)

// klineResponse mirrors the vendor's candlestick envelope. Each kline
// entry is a comma-joined string: date,open,close,high,low,volume,...
type klineResponse struct {
	Data struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// FetchHistory downloads forward-adjusted daily bars for one symbol
// over [start, end]. Results are cached per (symbol, range).
func (c *Client) FetchHistory(ctx context.Context, code, start, end string) (contracts.History, error) {
	cacheKey := fmt.Sprintf("history:%s:%s:%s", code, start, end)
	if c.cache != nil {
		var cached contracts.History
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("secid", secID(code))
	params.Set("klt", "101") // daily
	params.Set("fqt", "1")   // forward adjusted
	params.Set("beg", start)
	params.Set("end", end)
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f57")

	reqURL := fmt.Sprintf("%s/stock/kline/get?%s", c.cfg.HistoryBaseURL, params.Encode())
	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", code, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", code, err)
	}

	bars, err := parseKlines(body)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", code, err)
	}

	if c.cache != nil && len(bars) > 0 {
		if err := c.cache.Set(ctx, cacheKey, bars, c.cfg.CacheTTL); err != nil {
			c.logger.WithError(err).Debug("history cache write failed")
		}
	}
	return bars, nil
}

func parseKlines(body []byte) (contracts.History, error) {
	var parsed klineResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	bars := make(contracts.History, 0, len(parsed.Data.Klines))
	for _, line := range parsed.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline decodes one "2024-01-02,10.00,10.20,10.30,9.90,123456"
// style entry into a bar with a YYYYMMDD date.
func parseKline(line string) (contracts.PriceBar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return contracts.PriceBar{}, fmt.Errorf("malformed kline %q", line)
	}

	fields := make([]float64, 4)
	for i, idx := range []int{1, 2, 3, 4} { // open, close, high, low
		v, err := strconv.ParseFloat(parts[idx], 64)
		if err != nil {
			return contracts.PriceBar{}, fmt.Errorf("malformed kline %q: %w", line, err)
		}
		fields[i] = v
	}
	volume, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return contracts.PriceBar{}, fmt.Errorf("malformed kline %q: %w", line, err)
	}

	return contracts.PriceBar{
		Date:   strings.ReplaceAll(parts[0], "-", ""),
		Open:   fields[0],
		Close:  fields[1],
		High:   fields[2],
		Low:    fields[3],
		Volume: volume,
	}, nil
}

// FetchCalendar derives the trading calendar from the bar dates of
// the configured benchmark index, which trades on every session.
func (c *Client) FetchCalendar(ctx context.Context, start, end string) (contracts.Calendar, error) {
	params := url.Values{}
	params.Set("secid", c.cfg.CalendarIndex)
	params.Set("klt", "101")
	params.Set("fqt", "0")
	params.Set("beg", start)
	params.Set("end", end)
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f57")

	reqURL := fmt.Sprintf("%s/stock/kline/get?%s", c.cfg.HistoryBaseURL, params.Encode())
	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}

	bars, err := parseKlines(body)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	cal := make(contracts.Calendar, len(bars))
	for i, bar := range bars {
		cal[i] = bar.Date
	}
	return cal, nil
}
