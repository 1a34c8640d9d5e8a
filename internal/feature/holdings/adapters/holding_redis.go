package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/usecase"
)

// HoldingRedis implements usecase.HoldingRepository with one JSON list per session.
// The list expires ttl after the last add.
type HoldingRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.HoldingRepository = (*HoldingRedis)(nil)

// NewHoldingRedis creates a new HoldingRedis instance.
// If prefix is empty, it uses "portfolio".
func NewHoldingRedis(client *redis.Client, prefix string, ttl time.Duration) *HoldingRedis {
	if prefix == "" {
		prefix = "portfolio"
	}
	return &HoldingRedis{client: client, prefix: prefix, ttl: ttl}
}

// portfolioKey returns the Redis key for a session's portfolio.
func (r *HoldingRedis) portfolioKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, sessionID)
}

// Append pushes the holding to the tail of the session list and refreshes its TTL.
func (r *HoldingRedis) Append(ctx context.Context, sessionID string, h entity.Holding) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal holding: %w", err)
	}

	key := r.portfolioKey(sessionID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the holdings in insertion order.
func (r *HoldingRedis) List(ctx context.Context, sessionID string) ([]entity.Holding, error) {
	items, err := r.client.LRange(ctx, r.portfolioKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]entity.Holding, 0, len(items))
	for _, it := range items {
		var h entity.Holding
		if err := json.Unmarshal([]byte(it), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal holding: %w", err)
		}
		out = append(out, h)
	}
	return out, nil
}

// Clear deletes the session list.
func (r *HoldingRedis) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.portfolioKey(sessionID)).Err()
}
