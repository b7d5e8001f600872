package marketdata

import "context"

// Repository defines the persistence handle for the market data cache tables.
// All writes are upserts: concurrent writers for the same key must converge
// to a single row without raising a duplicate-key error.
type Repository interface {
	GetPrice(ctx context.Context, symbol string) (*PriceEntry, error)
	UpsertPrice(ctx context.Context, e *PriceEntry) error

	GetIndicator(ctx context.Context, symbol, indicatorType, timeframe string) (*IndicatorEntry, error)
	UpsertIndicator(ctx context.Context, e *IndicatorEntry) error

	GetRange(ctx context.Context, symbol string) (*RangeEntry, error)
	UpsertRange(ctx context.Context, e *RangeEntry) error
}
