package contracts

import "context"

// SnapshotFeed provides the live market-wide quote table.
type SnapshotFeed interface {
	FetchSpot(ctx context.Context) ([]Snapshot, error)
}

// FinancialFeed provides fundamental records keyed by symbol.
type FinancialFeed interface {
	FetchFinancials(ctx context.Context) (map[string]FinancialRecord, error)
}

// HistoryFeed provides daily bars for one symbol over a date range.
type HistoryFeed interface {
	FetchHistory(ctx context.Context, code, start, end string) (History, error)
}

// CalendarFeed provides the exchange trading calendar over a range.
type CalendarFeed interface {
	FetchCalendar(ctx context.Context, start, end string) (Calendar, error)
}

// PriceStore persists and serves daily bars.
type PriceStore interface {
	SaveBars(ctx context.Context, code string, bars History) error
	GetHistory(ctx context.Context, code, start, end string) (History, error)
	Codes(ctx context.Context) ([]string, error)
}

// SnapshotStore persists and serves dated snapshot tables.
type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, date string, rows []Snapshot) error
	GetSnapshots(ctx context.Context, date string) ([]Snapshot, error)
}
