package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/obs"
	"express-ledger-service/internal/ports"
)

// SQL implementation of the LedgerRepository port.
type SQLLedgerRepository struct {
	DB      *sql.DB
	Dialect Dialect
	Log     logging.Logger
}

func NewSQLLedgerRepository(db *sql.DB, d Dialect, log logging.Logger) *SQLLedgerRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &SQLLedgerRepository{DB: db, Dialect: d, Log: log}
}

const ledgerColumns = `id, day, goods_type, quantity, unit, weight, postage, created_at, updated_at`

func scanLedger(s rowScanner) (*domain.LedgerRecord, error) {
	var (
		r                domain.LedgerRecord
		weight, postage  sql.NullFloat64
		created, updated int64
	)
	err := s.Scan(&r.ID, &r.Date, &r.Type, &r.Quantity, &r.Unit, &weight, &postage, &created, &updated)
	if err != nil {
		return nil, err
	}
	r.Weight = floatPtr(weight)
	r.Postage = floatPtr(postage)
	r.CreatedAt = time.UnixMilli(created)
	r.UpdatedAt = time.UnixMilli(updated)
	return &r, nil
}

func (s *SQLLedgerRepository) InsertLedger(ctx context.Context, r *domain.LedgerRecord) error {
	if s.DB == nil {
		return errors.New("ledger repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	INSERT INTO ledger_records (` + ledgerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	_, err := s.DB.ExecContext(ctx, query,
		r.ID, r.Date, r.Type, r.Quantity, r.Unit,
		nullFloat(r.Weight), nullFloat(r.Postage),
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert ledger: id=%s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLLedgerRepository) GetLedger(ctx context.Context, id string) (*domain.LedgerRecord, error) {
	if s.DB == nil {
		return nil, errors.New("ledger repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT ` + ledgerColumns + ` FROM ledger_records WHERE id = ?;`)
	r, err := scanLedger(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get ledger: id=%s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger: id=%s: %w", id, err)
	}
	return r, nil
}

func (s *SQLLedgerRepository) ListLedgerByDate(ctx context.Context, date string) (_ []*domain.LedgerRecord, err error) {
	defer obs.Time(ctx, s.Log, "ledger.repo.ListByDate")(&err)

	query := `
	SELECT ` + ledgerColumns + `
	FROM ledger_records
	WHERE day = ?
	ORDER BY created_at DESC, id;
	`
	return s.list(ctx, "list ledger", query, date)
}

func (s *SQLLedgerRepository) ListLedgerRange(ctx context.Context, from, to string) (_ []*domain.LedgerRecord, err error) {
	defer obs.Time(ctx, s.Log, "ledger.repo.ListRange")(&err)

	query := `
	SELECT ` + ledgerColumns + `
	FROM ledger_records
	WHERE day >= ? AND day <= ?
	ORDER BY day DESC, created_at DESC, id;
	`
	return s.list(ctx, "list ledger range", query, from, to)
}

func (s *SQLLedgerRepository) list(ctx context.Context, op, query string, args ...any) ([]*domain.LedgerRecord, error) {
	if s.DB == nil {
		return nil, errors.New("ledger repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query ledger_records table: %w", op, err)
	}
	defer rows.Close()

	records := make([]*domain.LedgerRecord, 0, 32)
	for rows.Next() {
		r, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return records, nil
}

func (s *SQLLedgerRepository) UpdateLedger(ctx context.Context, r *domain.LedgerRecord) error {
	if s.DB == nil {
		return errors.New("ledger repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	UPDATE ledger_records
	SET day = ?, goods_type = ?, quantity = ?, unit = ?, weight = ?, postage = ?, updated_at = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, query,
		r.Date, r.Type, r.Quantity, r.Unit, nullFloat(r.Weight), nullFloat(r.Postage),
		r.UpdatedAt.UnixMilli(), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update ledger: id=%s: %w", r.ID, err)
	}
	return requireAffected(res, "update ledger", r.ID)
}

func (s *SQLLedgerRepository) DeleteLedger(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("ledger repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM ledger_records WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete ledger: id=%s: %w", id, err)
	}
	return requireAffected(res, "delete ledger", id)
}
