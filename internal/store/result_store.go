package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// ResultStore persists each rule bundle's candidate set as a flat export
// for the UI. Replaced per rule on every screener run; rank preserves the
// screener's ordering.
type ResultStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewResultStore(pool *pgxpool.Pool, log *logger.Logger) *ResultStore {
	return &ResultStore{pool: pool, logger: log}
}

func (s *ResultStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS screener_results (
		rule_type  TEXT NOT NULL,
		rank       INT NOT NULL,
		symbol     TEXT NOT NULL,
		market     TEXT NOT NULL,
		base_date  DATE NOT NULL,
		base_close DOUBLE PRECISION NOT NULL,
		score      INT NOT NULL,
		tier       TEXT NOT NULL,
		row        JSONB NOT NULL,
		PRIMARY KEY (rule_type, market, symbol, base_date)
	)`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create screener_results: %w", err)
	}
	return nil
}

// ReplaceResults swaps one rule's result set atomically.
func (s *ResultStore) ReplaceResults(ctx context.Context, rule contracts.RuleType, candidates []contracts.Candidate) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM screener_results WHERE rule_type = $1`, rule); err != nil {
		return fmt.Errorf("failed to clear %s results: %w", rule, err)
	}

	const ins = `
	INSERT INTO screener_results (
		rule_type, rank, symbol, market, base_date, base_close, score, tier, row
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	batch := &pgx.Batch{}
	for i, c := range candidates {
		batch.Queue(ins, rule, i+1, c.Row.Symbol, c.Row.Market,
			c.BaseDate, c.BaseClose, c.Score, c.Tier, c.Row)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert %s results: %w", rule, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s results: %w", rule, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"rule":       rule,
		"candidates": len(candidates),
	}).Info("스크리닝 결과 저장 완료")
	return nil
}

// ListResults returns one rule's candidates in screener order.
func (s *ResultStore) ListResults(ctx context.Context, rule contracts.RuleType) ([]contracts.Candidate, error) {
	const q = `
	SELECT rule_type, base_date, base_close, score, tier, row
	FROM screener_results
	WHERE rule_type = $1
	ORDER BY rank`

	rows, err := s.pool.Query(ctx, q, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s results: %w", rule, err)
	}
	defer rows.Close()

	var out []contracts.Candidate
	for rows.Next() {
		var c contracts.Candidate
		if err := rows.Scan(&c.RuleType, &c.BaseDate, &c.BaseClose, &c.Score, &c.Tier, &c.Row); err != nil {
			return nil, fmt.Errorf("failed to scan %s result: %w", rule, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
