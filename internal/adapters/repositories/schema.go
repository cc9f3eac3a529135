package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"express-ledger-service/internal/domain"
)

// Create the express and ledger tables. The DDL is valid for both SQLite
// and PostgreSQL and safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExpressQuery := `
	CREATE TABLE IF NOT EXISTS express_records (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		recorder TEXT NOT NULL,
		recipient TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		qty_ju INTEGER NOT NULL DEFAULT 0,
		qty_gong INTEGER NOT NULL DEFAULT 0,
		qty_mixed INTEGER NOT NULL DEFAULT 0,
		remark TEXT NOT NULL DEFAULT '',
		sort_order BIGINT NOT NULL,
		original_text TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createLedgerQuery := `
	CREATE TABLE IF NOT EXISTS ledger_records (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		goods_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit TEXT NOT NULL,
		weight DOUBLE PRECISION,
		postage DOUBLE PRECISION,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createExpressIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_express_records_day_order
	ON express_records(day, sort_order, created_at);
	`

	createLedgerIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_ledger_records_day_created
	ON ledger_records(day, created_at);
	`

	statements := []string{
		createExpressQuery,
		createLedgerQuery,
		createExpressIndexQuery,
		createLedgerIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LedgerSeed struct {
	ID       string   `json:"id" yaml:"id"`
	Date     string   `json:"date" yaml:"date"`
	Type     string   `json:"type" yaml:"type"`
	Quantity int      `json:"quantity" yaml:"quantity"`
	Unit     string   `json:"unit" yaml:"unit"`
	Weight   *float64 `json:"weight" yaml:"weight"`
	Postage  *float64 `json:"postage" yaml:"postage"`
}

// Populate the ledger with demo records from a JSON file, or YAML when the
// path ends in .yaml or .yml. Records are
// upserted by id, so seeding twice leaves one copy.
func SeedLedgerFromFile(ctx context.Context, db *sql.DB, d Dialect, seedPath string, now time.Time) error {
	bytes, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("seed ledger: read %q: %w", seedPath, err)
	}

	var data []LedgerSeed
	switch strings.ToLower(filepath.Ext(seedPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bytes, &data); err != nil {
			return fmt.Errorf("seed ledger: parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(bytes, &data); err != nil {
			return fmt.Errorf("seed ledger: parse json: %w", err)
		}
	}

	rows := make([]domain.LedgerRecord, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("seed ledger: item at index %d: id cannot be empty", i+1)
		}

		r := domain.LedgerRecord{
			ID:       id,
			Date:     strings.TrimSpace(item.Date),
			Type:     item.Type,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Weight:   item.Weight,
			Postage:  item.Postage,
		}
		r.Normalize()
		if err := r.Validate(); err != nil {
			return fmt.Errorf("seed ledger: item at index %d: %w", i+1, err)
		}
		rows = append(rows, r)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed ledger: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := d.Rebind(`
	INSERT INTO ledger_records (
		id, day, goods_type, quantity, unit, weight, postage, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET day = EXCLUDED.day,
		goods_type = EXCLUDED.goods_type,
		quantity = EXCLUDED.quantity,
		unit = EXCLUDED.unit,
		weight = EXCLUDED.weight,
		postage = EXCLUDED.postage,
		updated_at = EXCLUDED.updated_at;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed ledger: prepare insert: %w", err)
	}
	defer stmt.Close()

	ms := now.UnixMilli()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Date, r.Type, r.Quantity, r.Unit,
			nullFloat(r.Weight), nullFloat(r.Postage), ms, ms,
		); err != nil {
			return fmt.Errorf("seed ledger: insert id=%s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed ledger: commit tx: %w", err)
	}

	return nil
}
