package marketdata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/marketdata"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// memRepo is an in-memory cache repository for tests
type memRepo struct {
	mu         sync.Mutex
	prices     map[string]*marketdata.PriceEntry
	indicators map[string]*marketdata.IndicatorEntry
	ranges     map[string]*marketdata.RangeEntry
}

func newMemRepo() *memRepo {
	return &memRepo{
		prices:     make(map[string]*marketdata.PriceEntry),
		indicators: make(map[string]*marketdata.IndicatorEntry),
		ranges:     make(map[string]*marketdata.RangeEntry),
	}
}

func (r *memRepo) GetPrice(_ context.Context, symbol string) (*marketdata.PriceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.prices[symbol]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "price %s", symbol)
	}
	cp := *e
	return &cp, nil
}

func (r *memRepo) UpsertPrice(_ context.Context, e *marketdata.PriceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.prices[e.Symbol] = &cp
	return nil
}

func (r *memRepo) GetIndicator(_ context.Context, symbol, indicatorType, timeframe string) (*marketdata.IndicatorEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.indicators[symbol+"|"+indicatorType+"|"+timeframe]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "indicator %s", symbol)
	}
	cp := *e
	return &cp, nil
}

func (r *memRepo) UpsertIndicator(_ context.Context, e *marketdata.IndicatorEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.indicators[e.Symbol+"|"+e.IndicatorType+"|"+e.Timeframe] = &cp
	return nil
}

func (r *memRepo) GetRange(_ context.Context, symbol string) (*marketdata.RangeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.ranges[symbol]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "range %s", symbol)
	}
	cp := *e
	return &cp, nil
}

func (r *memRepo) UpsertRange(_ context.Context, e *marketdata.RangeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.ranges[e.Symbol] = &cp
	return nil
}

// fakeProvider returns canned values and records which symbols were requested
type fakeProvider struct {
	mu           sync.Mutex
	quotes       map[string]float64
	closes       map[string][]float64
	quoteCalls   []string
	closesCalls  []string
	quoteErr     error
	blockQuote   chan struct{} // when set, Quote blocks until closed or ctx done
	rangeHigh    float64
	rangeLow     float64
	rangeCalls   int
	closesErrFor map[string]error
}

func (p *fakeProvider) Quote(ctx context.Context, symbol string) (float64, error) {
	p.mu.Lock()
	p.quoteCalls = append(p.quoteCalls, symbol)
	block := p.blockQuote
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if p.quoteErr != nil {
		return 0, p.quoteErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	price, ok := p.quotes[symbol]
	if !ok {
		return 0, errors.Wrapf(errors.ErrPriceUnavailable, "no quote for %s", symbol)
	}
	return price, nil
}

func (p *fakeProvider) Closes(_ context.Context, symbol, _ string) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closesCalls = append(p.closesCalls, symbol)
	if err := p.closesErrFor[symbol]; err != nil {
		return nil, err
	}
	return p.closes[symbol], nil
}

func (p *fakeProvider) WeekRange52(_ context.Context, _ string) (float64, float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rangeCalls++
	return p.rangeHigh, p.rangeLow, nil
}

func (p *fakeProvider) quoteCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.quoteCalls)
}

func newTestService(repo marketdata.Repository, provider Provider) *Service {
	return NewService(repo, provider, Config{
		PriceTTL:     60 * time.Second,
		RangeTTL:     4 * time.Hour,
		FetchTimeout: 2 * time.Second,
		FetchWorkers: 4,
	}, logger.Get())
}

func TestGetPrice_CacheHitSkipsProvider(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{quotes: map[string]float64{"AAPL": 187.5}}
	svc := newTestService(repo, provider)

	first, err := svc.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 187.5, first)

	second, err := svc.GetPrice(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.quoteCallCount(), "second read inside TTL must not call provider")
}

func TestGetPrice_StaleEntryRefetches(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{quotes: map[string]float64{"AAPL": 190.0}}
	svc := newTestService(repo, provider)

	base := time.Now()
	require.NoError(t, repo.UpsertPrice(context.Background(), &marketdata.PriceEntry{
		Symbol:    "AAPL",
		Price:     120.0,
		FetchedAt: base.Add(-5 * time.Minute),
	}))

	svc.now = func() time.Time { return base }

	price, err := svc.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 190.0, price)
	assert.Equal(t, 1, provider.quoteCallCount())

	// Cache row was refreshed
	entry, err := repo.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 190.0, entry.Price)
}

func TestGetPrice_WarrantSymbolNormalization(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{quotes: map[string]float64{"IONQ-WT": 3.21}}
	svc := newTestService(repo, provider)

	price, err := svc.GetPrice(context.Background(), "IONQ/WS")
	require.NoError(t, err)
	assert.Equal(t, 3.21, price)

	// Provider sees the canonical form, the cache keeps the original symbol
	require.Len(t, provider.quoteCalls, 1)
	assert.Equal(t, "IONQ-WT", provider.quoteCalls[0])

	entry, err := repo.GetPrice(context.Background(), "IONQ/WS")
	require.NoError(t, err)
	assert.Equal(t, 3.21, entry.Price)
}

func TestGetPrice_ProviderHangHitsTimeout(t *testing.T) {
	repo := newMemRepo()
	block := make(chan struct{})
	defer close(block)
	provider := &fakeProvider{blockQuote: block}

	svc := NewService(repo, provider, Config{
		PriceTTL:     time.Minute,
		FetchTimeout: 50 * time.Millisecond,
		FetchWorkers: 1,
	}, logger.Get())

	start := time.Now()
	_, err := svc.GetPrice(context.Background(), "HUNG")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPriceUnavailable))
	assert.Less(t, time.Since(start), time.Second, "timeout must bound the call")
}

func TestGetPrices_PartialFailure(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{quotes: map[string]float64{
		"AAPL": 187.5,
		"MSFT": 410.0,
	}}
	svc := newTestService(repo, provider)

	prices := svc.GetPrices(context.Background(), []string{"AAPL", "MSFT", "NOPE"})

	assert.Len(t, prices, 2)
	assert.Equal(t, 187.5, prices["AAPL"])
	assert.Equal(t, 410.0, prices["MSFT"])
	_, ok := prices["NOPE"]
	assert.False(t, ok)
}

func TestGetPrices_DeduplicatesSymbols(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{quotes: map[string]float64{"AAPL": 187.5}}
	svc := newTestService(repo, provider)

	prices := svc.GetPrices(context.Background(), []string{"AAPL", "aapl", "AAPL"})

	assert.Len(t, prices, 1)
	assert.Equal(t, 1, provider.quoteCallCount())
}

func TestGetRSI_CachesUnderPeriodKey(t *testing.T) {
	repo := newMemRepo()
	closes := make([]float64, 0, 30)
	price := 100.0
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			price += 2
		} else {
			price -= 1
		}
		closes = append(closes, price)
	}
	provider := &fakeProvider{closes: map[string][]float64{"AAPL": closes}}
	svc := newTestService(repo, provider)

	rsi, err := svc.GetRSI(context.Background(), "AAPL", 14)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)

	entry, err := repo.GetIndicator(context.Background(), "AAPL", "rsi_14", "1d")
	require.NoError(t, err)
	assert.Equal(t, rsi, entry.Value)

	// Second read is served from cache
	again, err := svc.GetRSI(context.Background(), "AAPL", 14)
	require.NoError(t, err)
	assert.Equal(t, rsi, again)
	provider.mu.Lock()
	callCount := len(provider.closesCalls)
	provider.mu.Unlock()
	assert.Equal(t, 1, callCount)
}

func TestGetRSI_InsufficientHistory(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{closes: map[string][]float64{"NEWIPO": {10, 11, 12}}}
	svc := newTestService(repo, provider)

	_, err := svc.GetRSI(context.Background(), "NEWIPO", 14)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
}

func TestGet52WeekRange_CachedOnLongTTL(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{rangeHigh: 199.6, rangeLow: 124.2}
	svc := newTestService(repo, provider)

	high, low, err := svc.Get52WeekRange(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 199.6, high)
	assert.Equal(t, 124.2, low)

	_, _, err = svc.Get52WeekRange(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.rangeCalls)
}
