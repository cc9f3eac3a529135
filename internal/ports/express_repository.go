package ports

import (
	"context"

	"express-ledger-service/internal/domain"
)

// Port: persistence for express records, keyed by id and grouped by day.
type ExpressRepository interface {
	InsertExpress(ctx context.Context, r *domain.ExpressRecord) error
	// Return ErrNotFound when no record has the id.
	GetExpress(ctx context.Context, id string) (*domain.ExpressRecord, error)
	// Return the records of one day ordered by order, then creation time.
	ListExpressByDate(ctx context.Context, date string) ([]*domain.ExpressRecord, error)
	UpdateExpress(ctx context.Context, r *domain.ExpressRecord) error
	DeleteExpress(ctx context.Context, id string) error
	// Delete every record of a day and return how many were removed.
	DeleteExpressByDate(ctx context.Context, date string) (int, error)
}
