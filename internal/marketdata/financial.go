package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jwchen/argus/internal/contracts"
)

// Column positions in the vendor's earnings-report table.
const (
	colCode        = 1
	colRevenueYoY  = 6
	colProfitYoY   = 8
	colROE         = 10
	colGrossMargin = 12
	colReportDate  = 14
)

// FetchFinancials scrapes the latest earnings-report table and keys
// the records by symbol. Rows that fail to parse are skipped, not
// fatal: the scorer treats absent fundamentals as missing data.
func (c *Client) FetchFinancials(ctx context.Context) (map[string]contracts.FinancialRecord, error) {
	cacheKey := "financials:latest"
	if c.cache != nil {
		cached := make(map[string]contracts.FinancialRecord)
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s/yjbb", c.cfg.FinancialBaseURL)
	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch financials: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch financials: %w", err)
	}

	records, err := parseFinancialTable(body)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("scraped %d financial records", len(records))

	if c.cache != nil && len(records) > 0 {
		if err := c.cache.Set(ctx, cacheKey, records, c.cfg.CacheTTL); err != nil {
			c.logger.WithError(err).Debug("financials cache write failed")
		}
	}
	return records, nil
}

func parseFinancialTable(body []byte) (map[string]contracts.FinancialRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse financial page: %w", err)
	}

	records := make(map[string]contracts.FinancialRecord)
	doc.Find("table.dataview tbody tr, table#dt_1 tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= colReportDate {
			return
		}
		code := strings.TrimSpace(cells.Eq(colCode).Text())
		if len(code) != 6 {
			return
		}
		records[code] = contracts.FinancialRecord{
			Code:          code,
			RevenueGrowth: cellFloat(cells, colRevenueYoY),
			ProfitGrowth:  cellFloat(cells, colProfitYoY),
			ROE:           cellFloat(cells, colROE),
			GrossMargin:   cellFloat(cells, colGrossMargin),
			ReportDate:    strings.TrimSpace(cells.Eq(colReportDate).Text()),
		}
	})
	return records, nil
}

// cellFloat parses one numeric cell, tolerating thousands separators,
// percent signs and the vendor's "-" placeholder. Missing parses to
// nil.
func cellFloat(cells *goquery.Selection, idx int) *float64 {
	text := strings.TrimSpace(cells.Eq(idx).Text())
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSuffix(text, "%")
	if text == "" || text == "-" || text == "--" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}
