package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/obs"
)

const statsKeyPrefix = "express:stats:"

// RedisStatsCache stores day statistics as JSON strings with a TTL.
type RedisStatsCache struct {
	Client *redis.Client
	TTL    time.Duration
	Log    logging.Logger
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration, log logging.Logger) *RedisStatsCache {
	if log == nil {
		log = logging.NewNop()
	}
	return &RedisStatsCache{Client: client, TTL: ttl, Log: log}
}

func statsKey(date string) string { return statsKeyPrefix + strings.TrimSpace(date) }

func (c *RedisStatsCache) Get(ctx context.Context, date string) (_ domain.Statistics, _ bool, err error) {
	defer obs.Time(ctx, c.Log, "stats.cache.Get")(&err)

	if c.Client == nil {
		return domain.Statistics{}, false, errors.New("stats cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, statsKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Statistics{}, false, nil
	}
	if err != nil {
		return domain.Statistics{}, false, fmt.Errorf("get stats cache: date=%s: %w", date, err)
	}

	var s domain.Statistics
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Statistics{}, false, fmt.Errorf("get stats cache: decode date=%s: %w", date, err)
	}
	return s, true, nil
}

func (c *RedisStatsCache) Put(ctx context.Context, date string, s domain.Statistics) error {
	if c.Client == nil {
		return errors.New("stats cache: redis client is nil")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("put stats cache: encode date=%s: %w", date, err)
	}
	if err := c.Client.Set(ctx, statsKey(date), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put stats cache: date=%s: %w", date, err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, date string) error {
	if c.Client == nil {
		return errors.New("stats cache: redis client is nil")
	}

	if err := c.Client.Del(ctx, statsKey(date)).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: date=%s: %w", date, err)
	}
	return nil
}
