package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"express-ledger-service/internal/domain"
)

// DefaultLRUSize bounds the number of days held by LRUStatsCache.
const DefaultLRUSize = 256

// LRUStatsCache keeps day statistics in process memory.
// Entries expire after the TTL; a zero TTL keeps them until evicted.
type LRUStatsCache struct {
	lru *expirable.LRU[string, domain.Statistics]
}

func NewLRUStatsCache(size int, ttl time.Duration) *LRUStatsCache {
	if size <= 0 {
		size = DefaultLRUSize
	}
	return &LRUStatsCache{lru: expirable.NewLRU[string, domain.Statistics](size, nil, ttl)}
}

func (c *LRUStatsCache) Get(_ context.Context, date string) (domain.Statistics, bool, error) {
	s, ok := c.lru.Get(strings.TrimSpace(date))
	return s, ok, nil
}

func (c *LRUStatsCache) Put(_ context.Context, date string, s domain.Statistics) error {
	c.lru.Add(strings.TrimSpace(date), s)
	return nil
}

func (c *LRUStatsCache) Invalidate(_ context.Context, date string) error {
	c.lru.Remove(strings.TrimSpace(date))
	return nil
}
