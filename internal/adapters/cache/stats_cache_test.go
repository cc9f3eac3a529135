package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/ports"
)

var (
	_ ports.StatsCache = (*RedisStatsCache)(nil)
	_ ports.StatsCache = (*LRUStatsCache)(nil)
)

var sample = domain.Statistics{SumJu: 3, SumGong: 1, SumMixed: 2, Count: 4, SumAll: 6}

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisStatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStatsCache(client, ttl, nil), mr
}

func TestRedisStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	_, ok, err := c.Get(ctx, "2026-01-02")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "2026-01-02", sample))
	assert.True(t, mr.Exists("express:stats:2026-01-02"))
	assert.Equal(t, time.Minute, mr.TTL("express:stats:2026-01-02"))

	got, ok, err := c.Get(ctx, "2026-01-02")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample, got)

	require.NoError(t, c.Invalidate(ctx, "2026-01-02"))
	_, ok, err = c.Get(ctx, "2026-01-02")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.Put(ctx, "2026-01-02", sample))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "2026-01-02")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("express:stats:2026-01-02", "{not json"))

	_, ok, err := c.Get(ctx, "2026-01-02")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCacheServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)
	mr.Close()

	_, _, err := c.Get(ctx, "2026-01-02")
	assert.Error(t, err)
	assert.Error(t, c.Put(ctx, "2026-01-02", sample))
}

func TestLRUStatsCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUStatsCache(2, 0)

	require.NoError(t, c.Put(ctx, "2026-01-01", sample))
	require.NoError(t, c.Put(ctx, "2026-01-02", sample))
	require.NoError(t, c.Put(ctx, "2026-01-03", sample))

	_, ok, _ := c.Get(ctx, "2026-01-01")
	assert.False(t, ok, "oldest day evicted")

	got, ok, err := c.Get(ctx, " 2026-01-03 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample, got)

	require.NoError(t, c.Invalidate(ctx, "2026-01-03"))
	_, ok, _ = c.Get(ctx, "2026-01-03")
	assert.False(t, ok)
}

func TestLRUStatsCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewLRUStatsCache(0, 20*time.Millisecond)

	require.NoError(t, c.Put(ctx, "2026-01-02", sample))
	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "2026-01-02")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
