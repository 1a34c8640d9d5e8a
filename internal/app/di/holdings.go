package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	holdingsadapters "portfolio_tracker/internal/feature/holdings/adapters"
	"portfolio_tracker/internal/feature/holdings/usecase"
	"portfolio_tracker/internal/platform/config"
)

// ErrStoreUnavailable is returned when the selected holdings store has no backing connection.
var ErrStoreUnavailable = errors.New("holdings store unavailable")

// NewHoldingRepository creates the HoldingRepository selected by cfg.Holdings.Store.
// Every store drops a portfolio once the session TTL has passed since its last add.
func NewHoldingRepository(cfg *config.Config, rdb *redis.Client, db *gorm.DB) (usecase.HoldingRepository, error) {
	switch cfg.Holdings.Store {
	case config.StoreMemory, "":
		return holdingsadapters.NewHoldingMemory(cfg.Session.TTL), nil
	case config.StoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("%w: redis is not connected", ErrStoreUnavailable)
		}
		return holdingsadapters.NewHoldingRedis(rdb, "portfolio", cfg.Session.TTL), nil
	case config.StoreSQL:
		if db == nil {
			return nil, fmt.Errorf("%w: database is not connected", ErrStoreUnavailable)
		}
		return holdingsadapters.NewHoldingGorm(db, cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", ErrStoreUnavailable, cfg.Holdings.Store)
	}
}

// ExpirySweeper is implemented by stores that need an explicit purge of expired sessions.
type ExpirySweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// RunExpirySweep calls DeleteExpired every interval until ctx is done.
// It returns immediately when repo expires entries on its own.
func RunExpirySweep(ctx context.Context, repo usecase.HoldingRepository, interval time.Duration) {
	sweeper, ok := repo.(ExpirySweeper)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("failed to delete expired holdings", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("deleted expired holdings", "rows", n)
			}
		}
	}
}
