package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// BarRepository reads the daily bar series materialized by the external
// data collector. Read-only here.
type BarRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewBarRepository(pool *pgxpool.Pool, log *logger.Logger) *BarRepository {
	return &BarRepository{pool: pool, logger: log}
}

// GetSeries returns the full series oldest first; ErrNoData when the
// symbol has no bars at all.
func (r *BarRepository) GetSeries(ctx context.Context, market contracts.Market, symbol string) ([]contracts.DailyBar, error) {
	const q = `
	SELECT trade_date, open, high, low, close, volume
	FROM daily_bars
	WHERE market = $1 AND symbol = $2
	ORDER BY trade_date`

	rows, err := r.pool.Query(ctx, q, market, contracts.NormalizeCode(market, symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s/%s: %w", market, symbol, err)
	}
	defer rows.Close()

	var bars []contracts.DailyBar
	for rows.Next() {
		var b contracts.DailyBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar for %s/%s: %w", market, symbol, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, contracts.ErrNoData
	}
	return bars, nil
}
