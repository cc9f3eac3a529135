package ports

import (
	"context"

	"express-ledger-service/internal/domain"
)

// Port: a cache of per-day manifest statistics.
// A miss is reported with ok == false and a nil error.
type StatsCache interface {
	Get(ctx context.Context, date string) (s domain.Statistics, ok bool, err error)
	Put(ctx context.Context, date string, s domain.Statistics) error
	Invalidate(ctx context.Context, date string) error
}
