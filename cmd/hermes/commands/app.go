package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/hermes/internal/backtest"
	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/internal/enrich"
	"github.com/wonny/hermes/internal/indicator"
	"github.com/wonny/hermes/internal/pipeline"
	"github.com/wonny/hermes/internal/store"
	"github.com/wonny/hermes/pkg/config"
	"github.com/wonny/hermes/pkg/database"
	"github.com/wonny/hermes/pkg/logger"
	"github.com/wonny/hermes/pkg/redis"
)

// app wires the shared dependencies for every subcommand.
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	rdb *redis.Client

	bars      *store.BarRepository
	meta      *store.MetaRepository
	rows      *store.IndicatorStore
	results   *store.ResultStore
	marker    *store.Marker
	backtests *backtest.Repository
	tracker   *backtest.Tracker
	runner    *pipeline.Runner
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis 연결 실패, 캐시 없이 진행")
		rdb = nil
	}

	var cache *redis.Cache
	if rdb != nil && rdb.Enabled() {
		cache = redis.NewCache(rdb, "hermes")
	}

	a := &app{cfg: cfg, log: log, db: db, rdb: rdb}
	a.bars = store.NewBarRepository(db.Pool, log)
	a.meta = store.NewMetaRepository(db.Pool, cache, log)
	a.rows = store.NewIndicatorStore(db.Pool, log)
	a.results = store.NewResultStore(db.Pool, log)
	a.marker = store.NewMarker(db.Pool, cache, log)
	a.backtests = backtest.NewRepository(db.Pool, log)
	a.tracker = backtest.NewTracker(a.backtests, a.bars, log)
	a.runner = pipeline.NewRunner(a.bars, a.meta, a.rows, a.marker,
		indicator.NewCalculator(log), enrich.New(log), cfg.Batch.Workers, log)

	if err := a.ensureSchemas(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) ensureSchemas(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		a.rows.EnsureSchema,
		a.results.EnsureSchema,
		a.marker.EnsureSchema,
		a.backtests.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// markets resolves the market selection: CLI flags win over config.
func (a *app) markets() []contracts.Market {
	us, kr := a.cfg.Batch.UseUS, a.cfg.Batch.UseKR
	if useUS || useKR {
		us, kr = useUS, useKR
	}

	var out []contracts.Market
	if kr {
		out = append(out, contracts.MarketKR)
	}
	if us {
		out = append(out, contracts.MarketUS)
	}
	return out
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// resultLimit resolves the top-N cap: CLI flag wins over config.
func (a *app) resultLimit() int {
	if topN > 0 {
		return topN
	}
	return a.cfg.Screener.TopN
}
