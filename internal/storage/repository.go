// Package storage persists quote history: the parameters a quote was
// computed from plus its summary totals. Schedule rows are never stored;
// they are recomputed from the parameters on demand.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mutuo/internal/core"

	_ "modernc.org/sqlite"
)

// QuoteRecord is one row of quote history.
type QuoteRecord struct {
	ID        int64
	CreatedAt time.Time

	Principal         float64
	AnnualRatePercent float64
	TermYears         int
	Balloon           float64
	OverrideActive    bool
	OverridePayment   float64

	ComputedPayment  float64
	EffectivePayment float64
	TotalInterest    float64
	TotalPayment     float64
	Months           int

	Synced bool
}

// Parameters reconstructs the loan parameters stored on the record.
func (q QuoteRecord) Parameters() core.LoanParameters {
	return core.LoanParameters{
		Principal:         q.Principal,
		AnnualRatePercent: q.AnnualRatePercent,
		TermYears:         q.TermYears,
		Balloon:           q.Balloon,
	}
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection, for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Append inserts a quote record and returns its row ID.
func (r *SQLiteRepository) Append(ctx context.Context, q QuoteRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes (
			principal, annual_rate_percent, term_years, balloon,
			override_active, override_payment,
			computed_payment, effective_payment, total_interest, total_payment, months
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Principal, q.AnnualRatePercent, q.TermYears, q.Balloon,
		q.OverrideActive, q.OverridePayment,
		q.ComputedPayment, q.EffectivePayment, q.TotalInterest, q.TotalPayment, q.Months,
	)
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quote row id: %w", err)
	}

	slog.InfoContext(ctx, "Quote saved to SQLite",
		"id", id,
		"principal", q.Principal,
		"annual_rate_percent", q.AnnualRatePercent,
		"term_years", q.TermYears)

	return id, nil
}

const quoteColumns = `
	id, created_at,
	principal, annual_rate_percent, term_years, balloon,
	override_active, override_payment,
	computed_payment, effective_payment, total_interest, total_payment, months,
	synced`

func scanQuote(row interface{ Scan(dest ...any) error }) (QuoteRecord, error) {
	var q QuoteRecord
	err := row.Scan(
		&q.ID, &q.CreatedAt,
		&q.Principal, &q.AnnualRatePercent, &q.TermYears, &q.Balloon,
		&q.OverrideActive, &q.OverridePayment,
		&q.ComputedPayment, &q.EffectivePayment, &q.TotalInterest, &q.TotalPayment, &q.Months,
		&q.Synced,
	)
	return q, err
}

// GetQuote loads a single quote record by ID.
func (r *SQLiteRepository) GetQuote(ctx context.Context, id int64) (QuoteRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id)
	q, err := scanQuote(row)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("get quote %d: %w", id, err)
	}
	return q, nil
}

// ListRecent returns the most recent quote records, newest first.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]QuoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []QuoteRecord
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// GetPendingSync returns quote rows not yet exported to the ledger.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]QuoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE synced = 0 AND sync_error = 0
		 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync quotes: %w", err)
	}
	defer rows.Close()

	var quotes []QuoteRecord
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// MarkSynced marks a quote as exported to the ledger.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark quote synced: %w", err)
	}
	slog.InfoContext(ctx, "Quote marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a quote whose export failed so the periodic pass
// does not retry it endlessly.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark quote sync error: %w", err)
	}
	return nil
}
