package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/manifest"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/platform/obs"
	"express-ledger-service/internal/ports"
)

// maxConcurrentSaves bounds the inserts an import runs at once.
const maxConcurrentSaves = 5

// ExpressService files parsed manifest entries under calendar days.
type ExpressService struct {
	Repo  ports.ExpressRepository
	Cache ports.StatsCache
	Clock ports.Clock
	Log   logging.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics

	mu          sync.Mutex
	generations map[string]uint64
}

func NewExpressService(repo ports.ExpressRepository, cache ports.StatsCache, clock ports.Clock, log logging.Logger, m *metrics.Metrics) *ExpressService {
	if clock == nil {
		clock = ports.SystemClock
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &ExpressService{Repo: repo, Cache: cache, Clock: clock, Log: log, Metrics: m}
}

// DayView is one day of records with its statistics.
type DayView struct {
	Date       string
	Records    []*domain.ExpressRecord
	Statistics domain.Statistics
}

func validDate(op, date string) error {
	if !dates.Valid(date) {
		return fmt.Errorf("%s: date %q must be YYYY-MM-DD: %w", op, date, ErrInvalidRecord)
	}
	return nil
}

// Import parses a pasted roll-call and stores every entry under date.
//
// Orders are the current time in milliseconds plus the block order, so a
// later import sorts after everything already stored for the day. Saves run
// concurrently; the first failure cancels the rest and is returned.
func (s *ExpressService) Import(ctx context.Context, date, content string) (_ []*domain.ExpressRecord, err error) {
	defer obs.Time(ctx, s.Log, "express.Import")(&err)

	if err := validDate("import express", date); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("import express: %w", ErrEmptyContent)
	}

	entries := manifest.SplitAndParse(content)
	s.Metrics.EntriesParsed("import", len(entries))
	if len(entries) == 0 {
		return nil, fmt.Errorf("import express: %w", ErrNoEntries)
	}

	now := s.Clock.Now()
	baseOrder := now.UnixMilli()
	records := make([]*domain.ExpressRecord, 0, len(entries))
	for _, e := range entries {
		e.Order += baseOrder
		records = append(records, s.newRecord(date, e))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSaves)
	for _, r := range records {
		g.Go(func() error {
			if err := s.Repo.InsertExpress(gctx, r); err != nil {
				return fmt.Errorf("import express: save entry order=%d: %w", r.Order, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.invalidate(ctx, date)
		return nil, err
	}

	s.Metrics.RecordsWritten("express", "insert", len(records))
	s.invalidate(ctx, date)
	s.Log.Info("express imported", logging.String("date", date), logging.Int("entries", len(records)))
	return records, nil
}

// QuickAdd parses a single typed line and stores it under date.
func (s *ExpressService) QuickAdd(ctx context.Context, date, line string) (_ *domain.ExpressRecord, err error) {
	defer obs.Time(ctx, s.Log, "express.QuickAdd")(&err)

	if err := validDate("quick add express", date); err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("quick add express: %w", ErrEmptyContent)
	}

	e := manifest.ParseLine(line)
	s.Metrics.EntriesParsed("quick_add", 1)
	e.Order = s.Clock.Now().UnixMilli()
	r := s.newRecord(date, e)

	if err := s.Repo.InsertExpress(ctx, r); err != nil {
		return nil, fmt.Errorf("quick add express: %w", err)
	}
	s.Metrics.RecordsWritten("express", "insert", 1)
	s.invalidate(ctx, date)
	return r, nil
}

func (s *ExpressService) newRecord(date string, e domain.ManifestEntry) *domain.ExpressRecord {
	now := s.Clock.Now()
	return &domain.ExpressRecord{
		ID:            uuid.NewString(),
		Date:          date,
		ManifestEntry: e,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ListDay returns the day's records in display form with their statistics.
func (s *ExpressService) ListDay(ctx context.Context, date string) (_ DayView, err error) {
	defer obs.Time(ctx, s.Log, "express.ListDay")(&err)

	if err := validDate("list express", date); err != nil {
		return DayView{}, err
	}

	records, err := s.listDisplay(ctx, date)
	if err != nil {
		return DayView{}, err
	}
	return DayView{Date: date, Records: records, Statistics: aggregateRecords(records)}, nil
}

func (s *ExpressService) listDisplay(ctx context.Context, date string) ([]*domain.ExpressRecord, error) {
	records, err := s.Repo.ListExpressByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list express: %w", err)
	}

	out := make([]*domain.ExpressRecord, 0, len(records))
	for _, r := range records {
		d := r.ForDisplay()
		out = append(out, &d)
	}
	slices.SortStableFunc(out, func(a, b *domain.ExpressRecord) int {
		if a.Order != b.Order {
			if a.Order < b.Order {
				return -1
			}
			return 1
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func aggregateRecords(records []*domain.ExpressRecord) domain.Statistics {
	entries := make([]domain.ManifestEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.ManifestEntry)
	}
	return manifest.Aggregate(entries)
}

// DayStatistics returns the day's totals, served from the cache when
// possible. Cache failures are logged and fall through to the repository.
func (s *ExpressService) DayStatistics(ctx context.Context, date string) (_ domain.Statistics, err error) {
	defer obs.Time(ctx, s.Log, "express.DayStatistics")(&err)

	if err := validDate("express statistics", date); err != nil {
		return domain.Statistics{}, err
	}

	if s.Cache != nil {
		st, ok, err := s.Cache.Get(ctx, date)
		if err != nil {
			s.Log.Warn("stats cache get failed", logging.String("date", date), logging.Err(err))
		}
		s.Metrics.CacheLookup(ok)
		if ok {
			return st, nil
		}
	}

	gen := s.generation(date)
	records, err := s.Repo.ListExpressByDate(ctx, date)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("express statistics: %w", err)
	}
	st := aggregateRecords(records)

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, date, st); err != nil {
			s.Log.Warn("stats cache put failed", logging.String("date", date), logging.Err(err))
		}
		// A write landed while the totals were computed; they may be stale.
		if s.generation(date) != gen {
			s.invalidate(ctx, date)
		}
	}
	return st, nil
}

// ExportDay renders the day as a shareable roll-call: a title line, the
// summary line and the renumbered entries.
func (s *ExpressService) ExportDay(ctx context.Context, date string) (_ string, err error) {
	defer obs.Time(ctx, s.Log, "express.ExportDay")(&err)

	if err := validDate("export express", date); err != nil {
		return "", err
	}

	records, err := s.listDisplay(ctx, date)
	if err != nil {
		return "", fmt.Errorf("export express: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("export express: date=%s: %w", date, ErrNothingToExport)
	}

	entries := make([]domain.ManifestEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.ManifestEntry)
	}
	return manifest.RenderExport(dates.Display(date), entries), nil
}

// UpdateEntry applies an edit to one record. The recipient is folded into
// the address and negative quantities are stored as zero.
func (s *ExpressService) UpdateEntry(ctx context.Context, id string, patch domain.ExpressPatch) (_ *domain.ExpressRecord, err error) {
	defer obs.Time(ctx, s.Log, "express.UpdateEntry")(&err)

	r, err := s.Repo.GetExpress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update express: %w", err)
	}

	if !r.Apply(patch) {
		return r, nil
	}
	r.UpdatedAt = s.Clock.Now()

	if err := s.Repo.UpdateExpress(ctx, r); err != nil {
		return nil, fmt.Errorf("update express: %w", err)
	}
	s.Metrics.RecordsWritten("express", "update", 1)
	s.invalidate(ctx, r.Date)
	return r, nil
}

func (s *ExpressService) DeleteEntry(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, s.Log, "express.DeleteEntry")(&err)

	r, err := s.Repo.GetExpress(ctx, id)
	if err != nil {
		return fmt.Errorf("delete express: %w", err)
	}
	if err := s.Repo.DeleteExpress(ctx, id); err != nil {
		return fmt.Errorf("delete express: %w", err)
	}
	s.Metrics.RecordsWritten("express", "delete", 1)
	s.invalidate(ctx, r.Date)
	return nil
}

// ClearDay deletes every record of date and reports how many were removed.
func (s *ExpressService) ClearDay(ctx context.Context, date string) (_ int, err error) {
	defer obs.Time(ctx, s.Log, "express.ClearDay")(&err)

	if err := validDate("clear express", date); err != nil {
		return 0, err
	}

	n, err := s.Repo.DeleteExpressByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("clear express: %w", err)
	}
	s.Metrics.RecordsWritten("express", "delete", n)
	s.invalidate(ctx, date)
	return n, nil
}

// generation counts the writes to date seen by this service.
func (s *ExpressService) generation(date string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[date]
}

func (s *ExpressService) invalidate(ctx context.Context, date string) {
	if s.Cache == nil {
		return
	}
	s.mu.Lock()
	if s.generations == nil {
		s.generations = make(map[string]uint64)
	}
	s.generations[date]++
	s.mu.Unlock()

	if err := s.Cache.Invalidate(context.WithoutCancel(ctx), date); err != nil {
		s.Log.Warn("stats cache invalidate failed", logging.String("date", date), logging.Err(err))
	}
}
