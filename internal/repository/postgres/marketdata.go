package postgres

import (
	"context"
	"database/sql"

	"argus/internal/domain/marketdata"
	"argus/pkg/errors"
)

// Compile-time check
var _ marketdata.Repository = (*MarketDataRepository)(nil)

// MarketDataRepository implements the cache persistence handle using sqlx.
// All writes go through ON CONFLICT upserts so concurrent cycles resolving the
// same cache miss converge to one row instead of racing on a primary-key insert.
type MarketDataRepository struct {
	db DBTX
}

// NewMarketDataRepository creates a new market data cache repository
func NewMarketDataRepository(db DBTX) *MarketDataRepository {
	return &MarketDataRepository{db: db}
}

// GetPrice retrieves the cached quote for a symbol
func (r *MarketDataRepository) GetPrice(ctx context.Context, symbol string) (*marketdata.PriceEntry, error) {
	var e marketdata.PriceEntry

	query := `SELECT * FROM price_cache WHERE symbol = $1`

	if err := r.db.GetContext(ctx, &e, query, symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "price cache %s", symbol)
		}
		return nil, err
	}

	return &e, nil
}

// UpsertPrice writes a quote with last-writer-wins semantics
func (r *MarketDataRepository) UpsertPrice(ctx context.Context, e *marketdata.PriceEntry) error {
	query := `
		INSERT INTO price_cache (symbol, price, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET
			price = $2,
			fetched_at = $3`

	_, err := r.db.ExecContext(ctx, query, e.Symbol, e.Price, e.FetchedAt)
	return err
}

// GetIndicator retrieves a cached indicator value
func (r *MarketDataRepository) GetIndicator(ctx context.Context, symbol, indicatorType, timeframe string) (*marketdata.IndicatorEntry, error) {
	var e marketdata.IndicatorEntry

	query := `
		SELECT * FROM indicator_cache
		WHERE symbol = $1 AND indicator_type = $2 AND timeframe = $3`

	if err := r.db.GetContext(ctx, &e, query, symbol, indicatorType, timeframe); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "indicator cache %s %s %s", symbol, indicatorType, timeframe)
		}
		return nil, err
	}

	return &e, nil
}

// UpsertIndicator writes an indicator value with last-writer-wins semantics
func (r *MarketDataRepository) UpsertIndicator(ctx context.Context, e *marketdata.IndicatorEntry) error {
	query := `
		INSERT INTO indicator_cache (symbol, indicator_type, timeframe, value, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, indicator_type, timeframe) DO UPDATE SET
			value = $4,
			fetched_at = $5`

	_, err := r.db.ExecContext(ctx, query,
		e.Symbol, e.IndicatorType, e.Timeframe, e.Value, e.FetchedAt,
	)
	return err
}

// GetRange retrieves the cached 52-week range for a symbol
func (r *MarketDataRepository) GetRange(ctx context.Context, symbol string) (*marketdata.RangeEntry, error) {
	var e marketdata.RangeEntry

	query := `SELECT * FROM market_data_cache WHERE symbol = $1`

	if err := r.db.GetContext(ctx, &e, query, symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "range cache %s", symbol)
		}
		return nil, err
	}

	return &e, nil
}

// UpsertRange writes a 52-week range with last-writer-wins semantics
func (r *MarketDataRepository) UpsertRange(ctx context.Context, e *marketdata.RangeEntry) error {
	query := `
		INSERT INTO market_data_cache (symbol, high_52_week, low_52_week, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			high_52_week = $2,
			low_52_week = $3,
			fetched_at = $4`

	_, err := r.db.ExecContext(ctx, query, e.Symbol, e.High52W, e.Low52W, e.FetchedAt)
	return err
}
