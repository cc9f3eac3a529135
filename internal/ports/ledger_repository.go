package ports

import (
	"context"

	"express-ledger-service/internal/domain"
)

// Port: persistence for ledger records.
type LedgerRepository interface {
	InsertLedger(ctx context.Context, r *domain.LedgerRecord) error
	// Return ErrNotFound when no record has the id.
	GetLedger(ctx context.Context, id string) (*domain.LedgerRecord, error)
	// Return the records of one day, newest first.
	ListLedgerByDate(ctx context.Context, date string) ([]*domain.LedgerRecord, error)
	// Return records with from <= date <= to, by date then creation time, newest first.
	ListLedgerRange(ctx context.Context, from, to string) ([]*domain.LedgerRecord, error)
	UpdateLedger(ctx context.Context, r *domain.LedgerRecord) error
	DeleteLedger(ctx context.Context, id string) error
}
