package marketdata

import "time"

// PriceEntry is a cached quote. One row per symbol, overwritten on refresh.
type PriceEntry struct {
	Symbol    string    `db:"symbol"`
	Price     float64   `db:"price"`
	FetchedAt time.Time `db:"fetched_at"`
}

// IndicatorEntry is a cached indicator value keyed by symbol, indicator type
// (e.g. "rsi_14") and timeframe.
type IndicatorEntry struct {
	Symbol        string    `db:"symbol"`
	IndicatorType string    `db:"indicator_type"`
	Timeframe     string    `db:"timeframe"`
	Value         float64   `db:"value"`
	FetchedAt     time.Time `db:"fetched_at"`
}

// RangeEntry is a cached 52-week high/low. Refreshed on a longer TTL than
// quotes since the range moves slowly.
type RangeEntry struct {
	Symbol    string    `db:"symbol"`
	High52W   float64   `db:"high_52_week"`
	Low52W    float64   `db:"low_52_week"`
	FetchedAt time.Time `db:"fetched_at"`
}

// Fresh reports whether the entry is still inside its TTL window at now.
func (e *PriceEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Fresh reports whether the entry is still inside its TTL window at now.
func (e *IndicatorEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Fresh reports whether the entry is still inside its TTL window at now.
func (e *RangeEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}
