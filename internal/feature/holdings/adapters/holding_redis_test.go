package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestNewHoldingRedis(t *testing.T) {
	client, _ := setupTestRedis(t)

	repo := NewHoldingRedis(client, "", time.Hour)
	assert.Equal(t, "portfolio", repo.prefix)
	assert.Equal(t, "portfolio:abc", repo.portfolioKey("abc"))

	repo = NewHoldingRedis(client, "custom", time.Hour)
	assert.Equal(t, "custom", repo.prefix)
}

func TestHoldingRedis_AppendList(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewHoldingRedis(client, "portfolio", time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "s1", newHolding("MSFT", 2, "310.125")))
	require.NoError(t, repo.Append(ctx, "s1", newHolding("AAPL", 10, "150")))

	hs, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "MSFT", hs[0].Symbol)
	assert.True(t, hs[0].PurchasePrice.Equal(decimal.RequireFromString("310.125")))
	assert.Equal(t, "AAPL", hs[1].Symbol)
	assert.Equal(t, int64(10), hs[1].Units)

	assert.True(t, mr.Exists("portfolio:s1"))
	assert.Equal(t, time.Hour, mr.TTL("portfolio:s1"))
}

// TestHoldingRedis_TTLExpiry はTTL経過後にポートフォリオが消えることを検証します。
func TestHoldingRedis_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewHoldingRedis(client, "portfolio", time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "s1", newHolding("AAPL", 1, "1")))
	mr.FastForward(2 * time.Minute)

	hs, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestHoldingRedis_Clear(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewHoldingRedis(client, "portfolio", time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "s1", newHolding("AAPL", 1, "1")))
	require.NoError(t, repo.Clear(ctx, "s1"))
	assert.False(t, mr.Exists("portfolio:s1"))

	hs, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestHoldingRedis_List_Corrupted(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewHoldingRedis(client, "portfolio", time.Hour)

	_, err := mr.Push("portfolio:s1", "not-json")
	require.NoError(t, err)

	_, err = repo.List(context.Background(), "s1")
	assert.ErrorContains(t, err, "failed to unmarshal holding")
}
