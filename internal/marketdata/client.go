// Package marketdata implements the vendor-facing feeds: live quote
// snapshots, per-symbol bar histories, the trading calendar and a
// scraped fundamentals table. Responses are cached in Redis when a
// cache is configured.
package marketdata

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwchen/argus/pkg/config"
	"github.com/jwchen/argus/pkg/httputil"
	"github.com/jwchen/argus/pkg/logger"
	"github.com/jwchen/argus/pkg/redis"
)

// Client talks to the market data vendor. It implements the snapshot,
// financial, history and calendar feed contracts.
type Client struct {
	http   *httputil.Client
	cache  *redis.Cache
	cfg    config.VendorConfig
	logger *logger.Logger
}

// NewClient creates a vendor client. cache may be nil.
func NewClient(cfg config.VendorConfig, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient := httputil.New(log).WithRateLimit(cfg.RateLimit)
	return &Client{
		http:   httpClient,
		cache:  cache,
		cfg:    cfg,
		logger: log,
	}
}

// readBody drains and closes a vendor response, enforcing a 2xx status.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vendor returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// looseFloat tolerates the vendor's habit of sending "-" or a quoted
// number where a float belongs. Missing values decode to NaN.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "-" || s == "null" {
		*f = looseFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = looseFloat(math.NaN())
		return nil
	}
	*f = looseFloat(v)
	return nil
}

// value returns the float, 0 when missing.
func (f looseFloat) value() float64 {
	v := float64(f)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// ptr returns the float, nil when missing.
func (f looseFloat) ptr() *float64 {
	v := float64(f)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// secID maps a bare exchange code to the vendor's market-prefixed
// form: Shanghai listings (6xxxxx) are market 1, everything else
// (Shenzhen main board, SME, ChiNext) market 0.
func secID(code string) string {
	if strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}
