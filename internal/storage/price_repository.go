// Package storage persists snapshots and daily bars in PostgreSQL so
// screening and backtests can run without re-downloading the vendor.
package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jwchen/argus/internal/contracts"
)

// PriceRepository implements contracts.PriceStore over the
// data.daily_bars table. Dates cross the boundary as YYYYMMDD strings
// and are stored as SQL dates.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// SaveBars upserts one symbol's bars.
func (r *PriceRepository) SaveBars(ctx context.Context, code string, bars contracts.History) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.daily_bars (stock_code, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	for _, bar := range bars {
		date, err := contracts.ParseDate(bar.Date)
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, query,
			code, date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetHistory retrieves one symbol's bars over [start, end], ascending.
func (r *PriceRepository) GetHistory(ctx context.Context, code, start, end string) (contracts.History, error) {
	startT, err := contracts.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endT, err := contracts.ParseDate(end)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM data.daily_bars
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, code, startT, endT)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars contracts.History
	for rows.Next() {
		var bar contracts.PriceBar
		var date time.Time
		if err := rows.Scan(&date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, err
		}
		bar.Date = contracts.FormatDate(date)
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

// Codes lists every symbol with stored bars.
func (r *PriceRepository) Codes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT stock_code FROM data.daily_bars ORDER BY stock_code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
