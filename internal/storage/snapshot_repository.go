package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jwchen/argus/internal/contracts"
)

// SnapshotRepository implements contracts.SnapshotStore over the
// data.snapshots table, one row per (trade date, symbol).
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// SaveSnapshots upserts one day's quote table.
func (r *SnapshotRepository) SaveSnapshots(ctx context.Context, date string, snaps []contracts.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	dateT, err := contracts.ParseDate(date)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO data.snapshots (trade_date, stock_code, name, price, change_pct, pe, pb, market_cap, float_cap, turnover, industry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (trade_date, stock_code) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			change_pct = EXCLUDED.change_pct,
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			market_cap = EXCLUDED.market_cap,
			float_cap = EXCLUDED.float_cap,
			turnover = EXCLUDED.turnover,
			industry = EXCLUDED.industry
	`

	for _, s := range snaps {
		if _, err := r.pool.Exec(ctx, query,
			dateT, s.Code, s.Name, s.Price, s.ChangePct, s.PE, s.PB,
			s.MarketCap, s.FloatCap, s.Turnover, s.Industry,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetSnapshots retrieves one day's quote table.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, date string) ([]contracts.Snapshot, error) {
	dateT, err := contracts.ParseDate(date)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT stock_code, name, price, change_pct, pe, pb, market_cap, float_cap, turnover, industry
		FROM data.snapshots
		WHERE trade_date = $1
		ORDER BY stock_code
	`

	rows, err := r.pool.Query(ctx, query, dateT)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []contracts.Snapshot
	for rows.Next() {
		var s contracts.Snapshot
		if err := rows.Scan(
			&s.Code, &s.Name, &s.Price, &s.ChangePct, &s.PE, &s.PB,
			&s.MarketCap, &s.FloatCap, &s.Turnover, &s.Industry,
		); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
