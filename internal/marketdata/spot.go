package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jwchen/argus/internal/contracts"
)

// spotFields is the vendor field list requested for the quote table:
// price, change%, turnover%, PE, code, name, market caps, PB, industry.
const spotFields = "f2,f3,f8,f9,f12,f14,f20,f21,f23,f100"

// spotResponse mirrors the vendor's quote-list envelope.
type spotResponse struct {
	Data struct {
		Total int       `json:"total"`
		Diff  []spotRow `json:"diff"`
	} `json:"data"`
}

type spotRow struct {
	Price     looseFloat `json:"f2"`
	ChangePct looseFloat `json:"f3"`
	Turnover  looseFloat `json:"f8"`
	PE        looseFloat `json:"f9"`
	Code      string     `json:"f12"`
	Name      string     `json:"f14"`
	MarketCap looseFloat `json:"f20"`
	FloatCap  looseFloat `json:"f21"`
	PB        looseFloat `json:"f23"`
	Industry  string     `json:"f100"`
}

// FetchSpot downloads the full A-share quote table in one page.
func (c *Client) FetchSpot(ctx context.Context) ([]contracts.Snapshot, error) {
	params := url.Values{}
	params.Set("pn", "1")
	params.Set("pz", "6000")
	params.Set("po", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fid", "f3")
	params.Set("fs", "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23")
	params.Set("fields", spotFields)

	reqURL := fmt.Sprintf("%s/clist/get?%s", c.cfg.QuoteBaseURL, params.Encode())
	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch spot table: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch spot table: %w", err)
	}

	snapshots, err := parseSpot(body)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("fetched %d spot quotes", len(snapshots))
	return snapshots, nil
}

func parseSpot(body []byte) ([]contracts.Snapshot, error) {
	var parsed spotResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode spot table: %w", err)
	}

	out := make([]contracts.Snapshot, 0, len(parsed.Data.Diff))
	for _, row := range parsed.Data.Diff {
		if row.Code == "" {
			continue
		}
		out = append(out, contracts.Snapshot{
			Code:      row.Code,
			Name:      row.Name,
			Price:     row.Price.value(),
			ChangePct: row.ChangePct.value(),
			Turnover:  row.Turnover.value(),
			PE:        row.PE.value(),
			PB:        row.PB.value(),
			MarketCap: row.MarketCap.value(),
			FloatCap:  row.FloatCap.value(),
			Industry:  row.Industry,
		})
	}
	return out, nil
}
