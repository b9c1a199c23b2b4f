package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// IndicatorStore materializes the per-symbol indicator rows in PostgreSQL.
// The whole table is replaced in one transaction each batch run, so
// readers never observe a partially written universe.
// ⭐ SSOT: indicator_rows 스키마/쿼리는 이 파일에서만
type IndicatorStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewIndicatorStore(pool *pgxpool.Pool, log *logger.Logger) *IndicatorStore {
	return &IndicatorStore{pool: pool, logger: log}
}

// EnsureSchema creates the materialized table if missing.
func (s *IndicatorStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS indicator_rows (
		symbol                TEXT NOT NULL,
		market                TEXT NOT NULL,
		name                  TEXT NOT NULL DEFAULT '',
		rsi_3                 DOUBLE PRECISION[] NOT NULL,
		macd_3                DOUBLE PRECISION[] NOT NULL,
		macd_signal_3         DOUBLE PRECISION[] NOT NULL,
		obv_3                 DOUBLE PRECISION[] NOT NULL,
		obv_signal9_3         DOUBLE PRECISION[] NOT NULL,
		obv_signal20_4        DOUBLE PRECISION[] NOT NULL,
		close_3               DOUBLE PRECISION[] NOT NULL,
		ma20_3                DOUBLE PRECISION[] NOT NULL,
		ma50_3                DOUBLE PRECISION[] NOT NULL,
		ma200_3               DOUBLE PRECISION[] NOT NULL,
		market_cap            DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_trading_value_20d DOUBLE PRECISION NOT NULL DEFAULT 0,
		today_trading_value   DOUBLE PRECISION NOT NULL DEFAULT 0,
		turnover              DOUBLE PRECISION NOT NULL DEFAULT 0,
		per                   DOUBLE PRECISION NOT NULL DEFAULT 0,
		eps                   DOUBLE PRECISION NOT NULL DEFAULT 0,
		cap_status            TEXT NOT NULL DEFAULT '기존',
		upper_closes          INT NOT NULL DEFAULT 0,
		lower_closes          INT NOT NULL DEFAULT 0,
		sector                TEXT NOT NULL DEFAULT 'N/A',
		sector_trend          TEXT NOT NULL DEFAULT 'N/A',
		break_20high          INT NOT NULL DEFAULT 0,
		foreign_net_buy       DOUBLE PRECISION[] NOT NULL,
		institutional_net_buy DOUBLE PRECISION[] NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (market, symbol)
	)`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create indicator_rows: %w", err)
	}
	return nil
}

const indicatorColumns = `
	symbol, market, name,
	rsi_3, macd_3, macd_signal_3,
	obv_3, obv_signal9_3, obv_signal20_4,
	close_3, ma20_3, ma50_3, ma200_3,
	market_cap, avg_trading_value_20d, today_trading_value, turnover,
	per, eps, cap_status, upper_closes, lower_closes,
	sector, sector_trend, break_20high,
	foreign_net_buy, institutional_net_buy, updated_at`

const indicatorInsert = `
	INSERT INTO indicator_rows (` + indicatorColumns + `) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,
	$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)`

// ReplaceAll swaps in the freshly computed universe atomically.
func (s *IndicatorStore) ReplaceAll(ctx context.Context, rows []contracts.IndicatorRow) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM indicator_rows`); err != nil {
		return fmt.Errorf("failed to clear indicator_rows: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range rows {
		batch.Queue(indicatorInsert, insertArgs(&rows[i])...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert indicator rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit indicator rows: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"rows": len(rows),
	}).Info("지표 테이블 교체 완료")
	return nil
}

func insertArgs(r *contracts.IndicatorRow) []interface{} {
	return []interface{}{
		r.Symbol, r.Market, r.Name,
		r.RSI3, r.MACD3, r.MACDSignal3,
		r.OBV3, r.OBVSignal9, r.OBVSignal20,
		r.Close3, r.MA20, r.MA50, r.MA200,
		r.MarketCap, r.AvgTradingValue20D, r.TodayTradingValue, r.Turnover,
		r.PER, r.EPS, r.CapStatus, r.UpperCloses, r.LowerCloses,
		r.Sector, r.SectorTrend, r.Break20High,
		r.ForeignNetBuy, r.InstNetBuy, r.UpdatedAt,
	}
}

func scanRow(row pgx.Row) (*contracts.IndicatorRow, error) {
	var r contracts.IndicatorRow
	err := row.Scan(
		&r.Symbol, &r.Market, &r.Name,
		&r.RSI3, &r.MACD3, &r.MACDSignal3,
		&r.OBV3, &r.OBVSignal9, &r.OBVSignal20,
		&r.Close3, &r.MA20, &r.MA50, &r.MA200,
		&r.MarketCap, &r.AvgTradingValue20D, &r.TodayTradingValue, &r.Turnover,
		&r.PER, &r.EPS, &r.CapStatus, &r.UpperCloses, &r.LowerCloses,
		&r.Sector, &r.SectorTrend, &r.Break20High,
		&r.ForeignNetBuy, &r.InstNetBuy, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns rows for the selected markets; an empty selection means all.
func (s *IndicatorStore) List(ctx context.Context, markets []contracts.Market) ([]contracts.IndicatorRow, error) {
	q := `SELECT ` + indicatorColumns + ` FROM indicator_rows`
	args := []interface{}{}
	if len(markets) > 0 {
		names := make([]string, len(markets))
		for i, m := range markets {
			names[i] = string(m)
		}
		q += ` WHERE market = ANY($1)`
		args = append(args, names)
	}
	q += ` ORDER BY market, symbol`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicator rows: %w", err)
	}
	defer rows.Close()

	var out []contracts.IndicatorRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator row: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Get returns one symbol's row; ErrNoData when the symbol is absent.
func (s *IndicatorStore) Get(ctx context.Context, market contracts.Market, symbol string) (*contracts.IndicatorRow, error) {
	q := `SELECT ` + indicatorColumns + ` FROM indicator_rows WHERE market = $1 AND symbol = $2`

	r, err := scanRow(s.pool.QueryRow(ctx, q, market, symbol))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNoData
		}
		return nil, fmt.Errorf("failed to get indicator row: %w", err)
	}
	return r, nil
}
