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

// SQL implementation of the ExpressRepository port.
type SQLExpressRepository struct {
	DB      *sql.DB
	Dialect Dialect
	Log     logging.Logger
}

func NewSQLExpressRepository(db *sql.DB, d Dialect, log logging.Logger) *SQLExpressRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &SQLExpressRepository{DB: db, Dialect: d, Log: log}
}

const expressColumns = `
	id, day, recorder, recipient, phone, address,
	qty_ju, qty_gong, qty_mixed, remark, sort_order, original_text,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpress(s rowScanner) (*domain.ExpressRecord, error) {
	var (
		r                domain.ExpressRecord
		created, updated int64
		ju, gong, mixed  int
		order            int64
	)
	err := s.Scan(
		&r.ID, &r.Date, &r.Recorder, &r.Recipient, &r.Phone, &r.Address,
		&ju, &gong, &mixed, &r.Remark, &order, &r.OriginalText,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}
	r.Quantities = domain.Quantities{Ju: ju, Gong: gong, Mixed: mixed}
	r.Order = order
	r.CreatedAt = time.UnixMilli(created)
	r.UpdatedAt = time.UnixMilli(updated)
	return &r, nil
}

func (s *SQLExpressRepository) InsertExpress(ctx context.Context, r *domain.ExpressRecord) error {
	if s.DB == nil {
		return errors.New("express repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	INSERT INTO express_records (` + expressColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	_, err := s.DB.ExecContext(ctx, query,
		r.ID, r.Date, r.Recorder, r.Recipient, r.Phone, r.Address,
		r.Ju, r.Gong, r.Mixed, r.Remark, r.Order, r.OriginalText,
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert express: id=%s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLExpressRepository) GetExpress(ctx context.Context, id string) (*domain.ExpressRecord, error) {
	if s.DB == nil {
		return nil, errors.New("express repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT ` + expressColumns + ` FROM express_records WHERE id = ?;`)
	r, err := scanExpress(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get express: id=%s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get express: id=%s: %w", id, err)
	}
	return r, nil
}

// Return the records of one day ordered by sort order, then creation time.
func (s *SQLExpressRepository) ListExpressByDate(ctx context.Context, date string) (_ []*domain.ExpressRecord, err error) {
	defer obs.Time(ctx, s.Log, "express.repo.ListByDate")(&err)

	if s.DB == nil {
		return nil, errors.New("express repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	SELECT ` + expressColumns + `
	FROM express_records
	WHERE day = ?
	ORDER BY sort_order, created_at, id;
	`)
	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list express: query express_records table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.ExpressRecord, 0, 32)
	for rows.Next() {
		r, err := scanExpress(rows)
		if err != nil {
			return nil, fmt.Errorf("list express: scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list express: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLExpressRepository) UpdateExpress(ctx context.Context, r *domain.ExpressRecord) error {
	if s.DB == nil {
		return errors.New("express repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	UPDATE express_records
	SET recorder = ?, recipient = ?, phone = ?, address = ?,
		qty_ju = ?, qty_gong = ?, qty_mixed = ?, remark = ?, updated_at = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, query,
		r.Recorder, r.Recipient, r.Phone, r.Address,
		r.Ju, r.Gong, r.Mixed, r.Remark, r.UpdatedAt.UnixMilli(),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("update express: id=%s: %w", r.ID, err)
	}
	return requireAffected(res, "update express", r.ID)
}

func (s *SQLExpressRepository) DeleteExpress(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("express repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM express_records WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete express: id=%s: %w", id, err)
	}
	return requireAffected(res, "delete express", id)
}

func (s *SQLExpressRepository) DeleteExpressByDate(ctx context.Context, date string) (int, error) {
	if s.DB == nil {
		return 0, errors.New("express repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM express_records WHERE day = ?;`), date)
	if err != nil {
		return 0, fmt.Errorf("delete express day=%s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete express day=%s: rows affected: %w", date, err)
	}
	return int(n), nil
}

// requireAffected maps a zero-row write to ports.ErrNotFound.
func requireAffected(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: id=%s: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: id=%s: %w", op, id, ports.ErrNotFound)
	}
	return nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
