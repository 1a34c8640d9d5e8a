package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio_tracker/internal/feature/market/domain/entity"
	"portfolio_tracker/internal/feature/market/usecase"
)

// CachingMarketRepository decorates a MarketRepository with a short-lived
// cache keyed by symbol. Only non-empty successful results are stored, so a
// rate-limited or unknown symbol is retried on the next request.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	store     Store
	ttl       time.Duration
	namespace string
	// capTTL bounds ttl; nil means no cap.
	capTTL func() time.Duration
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "market".
// A nil store bypasses the cache entirely.
func NewCachingMarketRepository(store Store, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:     inner,
		store:     store,
		ttl:       ttl,
		namespace: namespace,
		capTTL:    TimeUntilNextDailyRefresh,
	}
}

// FetchPriceSeries returns the cached series or fetches and stores it.
func (c *CachingMarketRepository) FetchPriceSeries(ctx context.Context, symbol string) (entity.PriceSeries, error) {
	if c.store == nil {
		return c.inner.FetchPriceSeries(ctx, symbol)
	}

	key := c.priceKey(symbol)
	var cached entity.PriceSeries
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	series, err := c.inner.FetchPriceSeries(ctx, symbol)
	if err != nil || series.IsEmpty() {
		return series, err
	}
	c.save(ctx, key, series)
	return series, nil
}

// FetchOverview returns the cached overview or fetches and stores it.
func (c *CachingMarketRepository) FetchOverview(ctx context.Context, symbol string) (entity.CompanyOverview, error) {
	if c.store == nil {
		return c.inner.FetchOverview(ctx, symbol)
	}

	key := c.overviewKey(symbol)
	var cached entity.CompanyOverview
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	o, err := c.inner.FetchOverview(ctx, symbol)
	if err != nil || o.IsEmpty() {
		return o, err
	}
	c.save(ctx, key, o)
	return o, nil
}

// Invalidate drops the cached price series and overview of each symbol.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbols ...string) error {
	if c.store == nil || len(symbols) == 0 {
		return nil
	}
	keys := make([]string, 0, 2*len(symbols))
	for _, s := range symbols {
		keys = append(keys, c.priceKey(s), c.overviewKey(s))
	}
	return c.store.Del(ctx, keys...)
}

// load reads key into out. Corrupted entries are deleted.
func (c *CachingMarketRepository) load(ctx context.Context, key string, out any) bool {
	b, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			slog.Warn("market cache read failed", "key", key, "error", err)
		}
		return false
	}
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.store.Del(ctx, key)
		return false
	}
	return true
}

// save stores v under key (best effort).
func (c *CachingMarketRepository) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, b, c.effectiveTTL()); err != nil {
		slog.Warn("market cache write failed", "key", key, "error", err)
	}
}

// effectiveTTL is the configured ttl, shortened so entries do not outlive
// the next daily bar.
func (c *CachingMarketRepository) effectiveTTL() time.Duration {
	if c.capTTL == nil {
		return c.ttl
	}
	if limit := c.capTTL(); limit > 0 && limit < c.ttl {
		return limit
	}
	return c.ttl
}

func (c *CachingMarketRepository) priceKey(symbol string) string {
	return fmt.Sprintf("%s:price:%s", c.namespace, safe(symbol))
}

func (c *CachingMarketRepository) overviewKey(symbol string) string {
	return fmt.Sprintf("%s:overview:%s", c.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
