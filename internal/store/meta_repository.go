package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
	"github.com/wonny/hermes/pkg/redis"
)

const (
	metaCacheKey = "meta:snapshot"
	metaCacheTTL = 10 * time.Minute
)

// MetaRepository reads the symbol metadata maintained by the external
// collector and hands out read-only snapshots. The snapshot is cached in
// Redis between batch steps; the cache is a pure optimization and the
// repository works identically with Redis disabled.
type MetaRepository struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

func NewMetaRepository(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *MetaRepository {
	return &MetaRepository{pool: pool, cache: cache, logger: log}
}

type snapshotEntry struct {
	Market contracts.Market     `json:"market"`
	Symbol string               `json:"symbol"`
	Meta   contracts.SymbolMeta `json:"meta"`
}

// Snapshot loads all symbol metadata.
func (r *MetaRepository) Snapshot(ctx context.Context) (*contracts.MetaSnapshot, error) {
	if r.cache != nil {
		var cached []snapshotEntry
		if hit, err := r.cache.Get(ctx, metaCacheKey, &cached); err == nil && hit {
			return buildSnapshot(cached), nil
		}
	}

	const q = `
	SELECT market, symbol, name, market_cap, cap_status, per, eps, close,
	       sector, sector_trend, foreign_net_buy, institutional_net_buy
	FROM symbol_meta`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol metadata: %w", err)
	}
	defer rows.Close()

	var entries []snapshotEntry
	for rows.Next() {
		var e snapshotEntry
		if err := rows.Scan(
			&e.Market, &e.Symbol, &e.Meta.Name, &e.Meta.MarketCap, &e.Meta.CapStatus,
			&e.Meta.PER, &e.Meta.EPS, &e.Meta.Close, &e.Meta.Sector, &e.Meta.SectorTrend,
			&e.Meta.ForeignNetBuy, &e.Meta.InstNetBuy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan symbol metadata: %w", err)
		}
		e.Symbol = contracts.NormalizeCode(e.Market, e.Symbol)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, metaCacheKey, entries, metaCacheTTL); err != nil {
			r.logger.WithError(err).Warn("메타데이터 캐시 저장 실패")
		}
	}

	return buildSnapshot(entries), nil
}

func buildSnapshot(entries []snapshotEntry) *contracts.MetaSnapshot {
	byKey := make(map[contracts.MetaKey]contracts.SymbolMeta, len(entries))
	for _, e := range entries {
		byKey[contracts.MetaKey{Market: e.Market, Symbol: e.Symbol}] = e.Meta
	}
	return &contracts.MetaSnapshot{ByKey: byKey}
}
