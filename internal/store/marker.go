package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hermes/pkg/logger"
	"github.com/wonny/hermes/pkg/redis"
)

const markerCacheKey = "last_refresh"

// Marker records when the last successful batch finished. Postgres is the
// source of truth; Redis mirrors the value so the API can answer without a
// database round trip.
type Marker struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

func NewMarker(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *Marker {
	return &Marker{pool: pool, cache: cache, logger: log}
}

func (m *Marker) EnsureSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS refresh_marker (
		id           INT PRIMARY KEY CHECK (id = 1),
		refreshed_at TIMESTAMPTZ NOT NULL
	)`

	if _, err := m.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create refresh_marker: %w", err)
	}
	return nil
}

// SetLastRefresh persists the marker and mirrors it to Redis.
func (m *Marker) SetLastRefresh(ctx context.Context, at time.Time) error {
	const q = `
	INSERT INTO refresh_marker (id, refreshed_at) VALUES (1, $1)
	ON CONFLICT (id) DO UPDATE SET refreshed_at = EXCLUDED.refreshed_at`

	if _, err := m.pool.Exec(ctx, q, at); err != nil {
		return fmt.Errorf("failed to store refresh marker: %w", err)
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, markerCacheKey, at, 0); err != nil {
			m.logger.WithError(err).Warn("갱신 시각 캐시 저장 실패")
		}
	}
	return nil
}

// LastRefresh reads the marker; ok=false when no batch has ever finished.
func (m *Marker) LastRefresh(ctx context.Context) (time.Time, bool, error) {
	if m.cache != nil {
		var at time.Time
		if hit, err := m.cache.Get(ctx, markerCacheKey, &at); err == nil && hit {
			return at, true, nil
		}
	}

	var at time.Time
	err := m.pool.QueryRow(ctx, `SELECT refreshed_at FROM refresh_marker WHERE id = 1`).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read refresh marker: %w", err)
	}
	return at, true, nil
}
