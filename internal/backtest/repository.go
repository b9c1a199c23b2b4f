package backtest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// Repository persists the pending table and the append-only completed log
// in PostgreSQL.
// ⭐ SSOT: 백테스트 테이블 스키마/쿼리는 이 파일에서만
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, logger: log}
}

// EnsureSchema creates the backtest tables if missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS backtest_pending (
		symbol        TEXT NOT NULL,
		market        TEXT NOT NULL,
		rule_type     TEXT NOT NULL,
		base_date     DATE NOT NULL,
		target_date   DATE NOT NULL,
		base_close    DOUBLE PRECISION NOT NULL,
		latest_close  DOUBLE PRECISION NOT NULL DEFAULT 0,
		latest_update DATE NOT NULL DEFAULT now(),
		change_rate   DOUBLE PRECISION NOT NULL DEFAULT 0,
		date_5pct     TEXT NOT NULL DEFAULT '',
		date_10pct    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (symbol, market, rule_type, base_date)
	);

	CREATE TABLE IF NOT EXISTS backtest_completed (
		symbol            TEXT NOT NULL,
		market            TEXT NOT NULL,
		rule_type         TEXT NOT NULL,
		base_date         DATE NOT NULL,
		target_date       DATE NOT NULL,
		base_close        DOUBLE PRECISION NOT NULL,
		latest_close      DOUBLE PRECISION NOT NULL DEFAULT 0,
		latest_update     DATE NOT NULL DEFAULT now(),
		change_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
		date_5pct         TEXT NOT NULL DEFAULT '',
		date_10pct        TEXT NOT NULL DEFAULT '',
		final_close       DOUBLE PRECISION NOT NULL,
		final_change_rate DOUBLE PRECISION NOT NULL,
		completed_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (symbol, market, rule_type, base_date)
	);`

	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create backtest tables: %w", err)
	}
	return nil
}

// ListPending returns every record still awaiting its target date.
func (r *Repository) ListPending(ctx context.Context) ([]contracts.BacktestRecord, error) {
	const q = `
	SELECT symbol, market, rule_type, base_date, target_date, base_close,
	       latest_close, latest_update, change_rate, date_5pct, date_10pct
	FROM backtest_pending
	ORDER BY base_date, market, symbol, rule_type`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending records: %w", err)
	}
	defer rows.Close()

	var out []contracts.BacktestRecord
	for rows.Next() {
		var rec contracts.BacktestRecord
		if err := rows.Scan(
			&rec.Symbol, &rec.Market, &rec.RuleType, &rec.BaseDate, &rec.TargetDate,
			&rec.BaseClose, &rec.LatestClose, &rec.LatestUpdate, &rec.ChangeRate,
			&rec.Date5Pct, &rec.Date10Pct,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertPending inserts or refreshes one pending record by natural key.
func (r *Repository) UpsertPending(ctx context.Context, rec contracts.BacktestRecord) error {
	const q = `
	INSERT INTO backtest_pending (
		symbol, market, rule_type, base_date, target_date, base_close,
		latest_close, latest_update, change_rate, date_5pct, date_10pct
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (symbol, market, rule_type, base_date) DO UPDATE SET
		latest_close  = EXCLUDED.latest_close,
		latest_update = EXCLUDED.latest_update,
		change_rate   = EXCLUDED.change_rate,
		date_5pct     = EXCLUDED.date_5pct,
		date_10pct    = EXCLUDED.date_10pct`

	_, err := r.pool.Exec(ctx, q,
		rec.Symbol, rec.Market, rec.RuleType, rec.BaseDate, rec.TargetDate,
		rec.BaseClose, rec.LatestClose, rec.LatestUpdate, rec.ChangeRate,
		rec.Date5Pct, rec.Date10Pct,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pending record: %w", err)
	}
	return nil
}

// Complete moves a record into the completed log and drops it from
// pending in one transaction. The log insert is ON CONFLICT DO NOTHING,
// so re-completing an already logged key only clears the pending row.
func (r *Repository) Complete(ctx context.Context, rec contracts.BacktestRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const ins = `
	INSERT INTO backtest_completed (
		symbol, market, rule_type, base_date, target_date, base_close,
		latest_close, latest_update, change_rate, date_5pct, date_10pct,
		final_close, final_change_rate
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	ON CONFLICT (symbol, market, rule_type, base_date) DO NOTHING`

	if _, err := tx.Exec(ctx, ins,
		rec.Symbol, rec.Market, rec.RuleType, rec.BaseDate, rec.TargetDate,
		rec.BaseClose, rec.LatestClose, rec.LatestUpdate, rec.ChangeRate,
		rec.Date5Pct, rec.Date10Pct, rec.FinalClose, rec.FinalChangeRate,
	); err != nil {
		return fmt.Errorf("failed to append completed record: %w", err)
	}

	const del = `
	DELETE FROM backtest_pending
	WHERE symbol = $1 AND market = $2 AND rule_type = $3 AND base_date = $4`

	if _, err := tx.Exec(ctx, del,
		rec.Symbol, rec.Market, rec.RuleType, rec.BaseDate,
	); err != nil {
		return fmt.Errorf("failed to remove pending record: %w", err)
	}

	return tx.Commit(ctx)
}

// ListCompleted returns the full completed log, newest base date first.
func (r *Repository) ListCompleted(ctx context.Context) ([]contracts.BacktestRecord, error) {
	const q = `
	SELECT symbol, market, rule_type, base_date, target_date, base_close,
	       latest_close, latest_update, change_rate, date_5pct, date_10pct,
	       final_close, final_change_rate
	FROM backtest_completed
	ORDER BY base_date DESC, market, symbol, rule_type`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed records: %w", err)
	}
	defer rows.Close()

	var out []contracts.BacktestRecord
	for rows.Next() {
		rec := contracts.BacktestRecord{Completed: true}
		if err := rows.Scan(
			&rec.Symbol, &rec.Market, &rec.RuleType, &rec.BaseDate, &rec.TargetDate,
			&rec.BaseClose, &rec.LatestClose, &rec.LatestUpdate, &rec.ChangeRate,
			&rec.Date5Pct, &rec.Date10Pct, &rec.FinalClose, &rec.FinalChangeRate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completed record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// HasCompleted reports whether the natural key already sits in the log.
func (r *Repository) HasCompleted(ctx context.Context, rec contracts.BacktestRecord) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM backtest_completed
		WHERE symbol = $1 AND market = $2 AND rule_type = $3 AND base_date = $4
	)`

	var exists bool
	err := r.pool.QueryRow(ctx, q,
		rec.Symbol, rec.Market, rec.RuleType, rec.BaseDate,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed log: %w", err)
	}
	return exists, nil
}
