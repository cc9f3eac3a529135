package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/platform/obs"
	"express-ledger-service/internal/ports"
)

// LedgerService keeps the bookkeeping ledger of shipped goods.
type LedgerService struct {
	Repo    ports.LedgerRepository
	Clock   ports.Clock
	Log     logging.Logger
	Metrics *metrics.Metrics
}

func NewLedgerService(repo ports.LedgerRepository, clock ports.Clock, log logging.Logger, m *metrics.Metrics) *LedgerService {
	if clock == nil {
		clock = ports.SystemClock
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &LedgerService{Repo: repo, Clock: clock, Log: log, Metrics: m}
}

// LedgerInput is a new ledger line. An empty Date means today.
type LedgerInput struct {
	Date     string
	Type     string
	Quantity int
	Unit     string
	Weight   *float64
	Postage  *float64
}

// LedgerPatch edits a ledger line; nil fields are unchanged. A weight or
// postage of zero clears the value.
type LedgerPatch struct {
	Date     *string
	Type     *string
	Quantity *int
	Unit     *string
	Weight   *float64
	Postage  *float64
}

func checkLedger(op string, r *domain.LedgerRecord) error {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidRecord, err)
	}
	return validDate(op, r.Date)
}

func (s *LedgerService) Add(ctx context.Context, in LedgerInput) (_ *domain.LedgerRecord, err error) {
	defer obs.Time(ctx, s.Log, "ledger.Add")(&err)

	now := s.Clock.Now()
	r := &domain.LedgerRecord{
		ID:        uuid.NewString(),
		Date:      in.Date,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Weight:    in.Weight,
		Postage:   in.Postage,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if r.Date == "" {
		r.Date = dates.Format(now)
	}
	if err := checkLedger("add ledger", r); err != nil {
		return nil, err
	}

	if err := s.Repo.InsertLedger(ctx, r); err != nil {
		return nil, fmt.Errorf("add ledger: %w", err)
	}
	s.Metrics.RecordsWritten("ledger", "insert", 1)
	return r, nil
}

func (s *LedgerService) Get(ctx context.Context, id string) (*domain.LedgerRecord, error) {
	r, err := s.Repo.GetLedger(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	return r, nil
}

// ListDay returns the day's records, newest first.
func (s *LedgerService) ListDay(ctx context.Context, date string) ([]*domain.LedgerRecord, error) {
	if err := validDate("list ledger", date); err != nil {
		return nil, err
	}
	records, err := s.Repo.ListLedgerByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return records, nil
}

// ListRange returns records dated from..to inclusive, latest day first.
func (s *LedgerService) ListRange(ctx context.Context, from, to string) ([]*domain.LedgerRecord, error) {
	if err := validDate("list ledger range", from); err != nil {
		return nil, err
	}
	if err := validDate("list ledger range", to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("list ledger range: from %s is after to %s: %w", from, to, ErrInvalidRecord)
	}

	records, err := s.Repo.ListLedgerRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ledger range: %w", err)
	}
	return records, nil
}

func (s *LedgerService) Update(ctx context.Context, id string, p LedgerPatch) (_ *domain.LedgerRecord, err error) {
	defer obs.Time(ctx, s.Log, "ledger.Update")(&err)

	r, err := s.Repo.GetLedger(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update ledger: %w", err)
	}

	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		r.Unit = *p.Unit
	}
	if p.Weight != nil {
		r.Weight = p.Weight
	}
	if p.Postage != nil {
		r.Postage = p.Postage
	}
	if err := checkLedger("update ledger", r); err != nil {
		return nil, err
	}
	r.UpdatedAt = s.Clock.Now()

	if err := s.Repo.UpdateLedger(ctx, r); err != nil {
		return nil, fmt.Errorf("update ledger: %w", err)
	}
	s.Metrics.RecordsWritten("ledger", "update", 1)
	return r, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteLedger(ctx, id); err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}
	s.Metrics.RecordsWritten("ledger", "delete", 1)
	return nil
}

// DayStatistics totals the day's records overall and per goods type.
func (s *LedgerService) DayStatistics(ctx context.Context, date string) (domain.LedgerStatistics, error) {
	records, err := s.ListDay(ctx, date)
	if err != nil {
		return domain.LedgerStatistics{}, fmt.Errorf("ledger statistics: %w", err)
	}
	return domain.SummarizeLedger(records), nil
}
