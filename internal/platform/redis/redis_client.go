// Package redis はキャッシュとholdingsストア用のRedisクライアントを提供します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_tracker/internal/platform/config"
)

// ErrNotConfigured is returned when no Redis host is set.
var ErrNotConfigured = errors.New("redis is not configured")

// pingTimeout は起動時の接続確認の上限です。
const pingTimeout = 3 * time.Second

// NewRedisClient は設定からクライアントを生成し、接続を確認します。
func NewRedisClient(cfg config.Redis) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
