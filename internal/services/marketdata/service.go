package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"argus/internal/domain/marketdata"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// Provider fetches live market data for provider-canonical symbols
type Provider interface {
	Quote(ctx context.Context, symbol string) (float64, error)
	Closes(ctx context.Context, symbol, interval string) ([]float64, error)
	WeekRange52(ctx context.Context, symbol string) (high, low float64, err error)
}

// Config controls cache TTLs and the bounded fetch pool
type Config struct {
	PriceTTL     time.Duration
	RangeTTL     time.Duration
	FetchTimeout time.Duration
	FetchWorkers int
}

// Service is the cached market data layer. Reads check the cache tables
// first; misses and stale entries go to the provider through a bounded
// worker pool and are upserted back. Provider failures surface as errors,
// never as stale data presented as fresh.
type Service struct {
	repo     marketdata.Repository
	provider Provider
	cfg      Config
	pool     *fetchPool
	now      func() time.Time
	log      *logger.Logger
}

// NewService creates a new market data service
func NewService(repo marketdata.Repository, provider Provider, cfg Config, log *logger.Logger) *Service {
	if cfg.PriceTTL <= 0 {
		cfg.PriceTTL = 60 * time.Second
	}
	if cfg.RangeTTL <= 0 {
		cfg.RangeTTL = 4 * time.Hour
	}
	// The 52-week range never goes stale faster than quotes do
	if cfg.RangeTTL < cfg.PriceTTL {
		cfg.RangeTTL = cfg.PriceTTL
	}

	return &Service{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		pool:     newFetchPool(cfg.FetchWorkers, cfg.FetchTimeout),
		now:      time.Now,
		log:      log.With("component", "marketdata_service"),
	}
}

// GetPrice returns the current price for a symbol, served from cache when
// fresh. Cache keys use the caller's original symbol.
func (s *Service) GetPrice(ctx context.Context, symbol string) (float64, error) {
	key := CacheKey(symbol)

	entry, err := s.repo.GetPrice(ctx, key)
	if err == nil && entry.Fresh(s.now(), s.cfg.PriceTTL) {
		return entry.Price, nil
	}
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		s.log.Warnw("Price cache read failed, falling through to provider", "symbol", key, "error", err)
	}

	var price float64
	fetchErr := s.pool.do(ctx, func(fctx context.Context) error {
		p, err := s.provider.Quote(fctx, ProviderSymbol(key))
		if err != nil {
			return err
		}
		price = p
		return nil
	})
	if fetchErr != nil {
		return 0, errors.Wrapf(errors.ErrPriceUnavailable, "fetch price for %s: %v", key, fetchErr)
	}

	s.upsertPrice(ctx, key, price)
	return price, nil
}

// GetPrices fetches each symbol independently and returns only successes.
// One symbol failing never blocks the others.
func (s *Service) GetPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return prices
	}

	seen := make(map[string]struct{}, len(symbols))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, symbol := range symbols {
		key := CacheKey(symbol)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			price, err := s.GetPrice(ctx, sym)
			if err != nil {
				s.log.Debugw("Skipping symbol without price", "symbol", sym, "error", err)
				return
			}
			mu.Lock()
			prices[sym] = price
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	return prices
}

// GetRSI returns the Wilder-smoothed RSI for a symbol over daily closes,
// cached under "rsi_<period>"
func (s *Service) GetRSI(ctx context.Context, symbol string, period int) (float64, error) {
	const timeframe = "1d"

	key := CacheKey(symbol)
	indicatorType := fmt.Sprintf("rsi_%d", period)

	entry, err := s.repo.GetIndicator(ctx, key, indicatorType, timeframe)
	if err == nil && entry.Fresh(s.now(), s.cfg.PriceTTL) {
		return entry.Value, nil
	}
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		s.log.Warnw("Indicator cache read failed, falling through to provider", "symbol", key, "error", err)
	}

	var closes []float64
	fetchErr := s.pool.do(ctx, func(fctx context.Context) error {
		c, err := s.provider.Closes(fctx, ProviderSymbol(key), timeframe)
		if err != nil {
			return err
		}
		closes = c
		return nil
	})
	if fetchErr != nil {
		return 0, errors.Wrapf(errors.ErrPriceUnavailable, "fetch closes for %s: %v", key, fetchErr)
	}

	rsi, err := computeRSI(closes, period)
	if err != nil {
		return 0, err
	}

	if upsertErr := s.repo.UpsertIndicator(ctx, &marketdata.IndicatorEntry{
		Symbol:        key,
		IndicatorType: indicatorType,
		Timeframe:     timeframe,
		Value:         rsi,
		FetchedAt:     s.now(),
	}); upsertErr != nil {
		s.log.Warnw("Indicator cache write failed", "symbol", key, "error", upsertErr)
	}

	return rsi, nil
}

// Get52WeekRange returns the 52-week high and low for a symbol
func (s *Service) Get52WeekRange(ctx context.Context, symbol string) (high, low float64, err error) {
	key := CacheKey(symbol)

	entry, cacheErr := s.repo.GetRange(ctx, key)
	if cacheErr == nil && entry.Fresh(s.now(), s.cfg.RangeTTL) {
		return entry.High52W, entry.Low52W, nil
	}
	if cacheErr != nil && !errors.Is(cacheErr, errors.ErrNotFound) {
		s.log.Warnw("Range cache read failed, falling through to provider", "symbol", key, "error", cacheErr)
	}

	fetchErr := s.pool.do(ctx, func(fctx context.Context) error {
		h, l, err := s.provider.WeekRange52(fctx, ProviderSymbol(key))
		if err != nil {
			return err
		}
		high, low = h, l
		return nil
	})
	if fetchErr != nil {
		return 0, 0, errors.Wrapf(errors.ErrPriceUnavailable, "fetch 52-week range for %s: %v", key, fetchErr)
	}

	if upsertErr := s.repo.UpsertRange(ctx, &marketdata.RangeEntry{
		Symbol:    key,
		High52W:   high,
		Low52W:    low,
		FetchedAt: s.now(),
	}); upsertErr != nil {
		s.log.Warnw("Range cache write failed", "symbol", key, "error", upsertErr)
	}

	return high, low, nil
}

func (s *Service) upsertPrice(ctx context.Context, symbol string, price float64) {
	if err := s.repo.UpsertPrice(ctx, &marketdata.PriceEntry{
		Symbol:    symbol,
		Price:     price,
		FetchedAt: s.now(),
	}); err != nil {
		s.log.Warnw("Price cache write failed", "symbol", symbol, "error", err)
	}
}
