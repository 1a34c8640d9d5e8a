// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_tracker/internal/platform/cache"
	"portfolio_tracker/internal/platform/config"
	"portfolio_tracker/internal/platform/externalapi/alphavantage"
	infrahttp "portfolio_tracker/internal/platform/http"
	"portfolio_tracker/internal/shared/ratelimiter"
)

// NewMarket creates the Alpha Vantage client wrapped in the market cache.
// The cache lives in Redis when rdb is non-nil, otherwise in process memory.
func NewMarket(cfg *config.Config, rdb *redis.Client) *cache.CachingMarketRepository {
	avCfg := alphavantage.Config{
		APIKey:         cfg.AlphaVantage.APIKey,
		BaseURL:        cfg.AlphaVantage.BaseURL,
		Timeout:        cfg.AlphaVantage.Timeout,
		CallsPerMinute: cfg.AlphaVantage.CallsPerMinute,
	}
	httpClient := infrahttp.NewHTTPClient(avCfg.Timeout)

	var limiter ratelimiter.Limiter
	if avCfg.CallsPerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(avCfg.CallsPerMinute, time.Minute)
	}
	market := alphavantage.NewAlphaVantageMarket(avCfg, httpClient, limiter)

	var store cache.Store
	if rdb != nil {
		store = cache.NewRedisStore(rdb)
		slog.Info("market cache backend", "backend", "redis", "ttl", cfg.Cache.TTL)
	} else {
		store = cache.NewMemoryStore(cfg.Cache.Size, cfg.Cache.TTL)
		slog.Info("market cache backend", "backend", "memory", "ttl", cfg.Cache.TTL, "size", cfg.Cache.Size)
	}
	return cache.NewCachingMarketRepository(store, cfg.Cache.TTL, market, "market")
}
