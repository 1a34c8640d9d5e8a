// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// ErrBurstExceeded は待機しても許可を得られない場合に返されます。
var ErrBurstExceeded = errors.New("rate limiter: request exceeds burst")

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回までの呼び出しを許可します。
// 複数のgoroutineから同時に呼び出しても安全です。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は無制限になります。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{limiter: rate.NewLimiter(every, limit), limit: limit}
}

// Wait はレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中にctxがキャンセルされた場合は予約を取り消してctx.Err()を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return ErrBurstExceeded
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limit", rl.limit, "delay", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
