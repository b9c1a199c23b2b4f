package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/internal/enrich"
	"github.com/wonny/hermes/internal/indicator"
	"github.com/wonny/hermes/pkg/logger"
)

// Runner fans the indicator calculation out across symbols and merges the
// results through a single writer into the materialized store.
// 심볼 간 순서 의존성이 없으므로 완전 병렬 — 머지만 직렬화한다.
// ⭐ SSOT: 배치 파이프라인 오케스트레이션은 이 파일에서만
type Runner struct {
	bars     contracts.BarRepository
	meta     contracts.MetaRepository
	rows     contracts.IndicatorStore
	marker   contracts.RefreshMarker
	calc     *indicator.Calculator
	enricher *enrich.Enricher
	workers  int
	logger   *logger.Logger
}

// Stats summarizes one batch run.
type Stats struct {
	Symbols  int
	Computed int
	Skipped  int
	Elapsed  time.Duration
}

func NewRunner(
	bars contracts.BarRepository,
	meta contracts.MetaRepository,
	rows contracts.IndicatorStore,
	marker contracts.RefreshMarker,
	calc *indicator.Calculator,
	enricher *enrich.Enricher,
	workers int,
	log *logger.Logger,
) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		bars: bars, meta: meta, rows: rows, marker: marker,
		calc: calc, enricher: enricher, workers: workers, logger: log,
	}
}

type result struct {
	row *contracts.IndicatorRow
	err error
	sym contracts.Symbol
}

// Run computes every selected symbol, replaces the store atomically, and
// stamps the refresh marker. The computed universe is returned so callers
// can screen it without a store round trip.
func (r *Runner) Run(ctx context.Context, markets []contracts.Market) ([]contracts.IndicatorRow, *Stats, error) {
	start := time.Now()

	snapshot, err := r.meta.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load metadata snapshot: %w", err)
	}

	symbols := universe(snapshot, markets)

	r.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"workers": r.workers,
	}).Info("지표 배치 시작")

	jobs := make(chan contracts.Symbol)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				row, err := r.compute(ctx, sym, snapshot)
				results <- result{row: row, err: err, sym: sym}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sym := range symbols {
			select {
			case jobs <- sym:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// 단일 수집자: 행 병합은 여기서만 일어난다
	rows := make([]contracts.IndicatorRow, 0, len(symbols))
	skipped := 0
	for res := range results {
		if res.err != nil {
			skipped++
			r.logger.WithError(res.err).WithFields(map[string]interface{}{
				"symbol": res.sym.Code,
				"market": res.sym.Market,
			}).Warn("지표 계산 실패, 심볼 스킵")
			continue
		}
		rows = append(rows, *res.row)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// 워커 완료 순서와 무관하게 항상 같은 저장 순서
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Market != rows[j].Market {
			return rows[i].Market < rows[j].Market
		}
		return rows[i].Symbol < rows[j].Symbol
	})

	if err := r.rows.ReplaceAll(ctx, rows); err != nil {
		return nil, nil, fmt.Errorf("failed to replace indicator store: %w", err)
	}
	if err := r.marker.SetLastRefresh(ctx, time.Now()); err != nil {
		return nil, nil, fmt.Errorf("failed to stamp refresh marker: %w", err)
	}

	stats := &Stats{
		Symbols:  len(symbols),
		Computed: len(rows),
		Skipped:  skipped,
		Elapsed:  time.Since(start),
	}
	r.logger.WithFields(map[string]interface{}{
		"computed": stats.Computed,
		"skipped":  stats.Skipped,
		"elapsed":  stats.Elapsed.String(),
	}).Info("지표 배치 완료")

	return rows, stats, nil
}

func (r *Runner) compute(ctx context.Context, sym contracts.Symbol, snapshot *contracts.MetaSnapshot) (*contracts.IndicatorRow, error) {
	bars, err := r.bars.GetSeries(ctx, sym.Market, sym.Code)
	if err != nil {
		return nil, err
	}

	row, err := r.calc.Compute(ctx, sym, bars)
	if err != nil {
		return nil, err
	}

	r.enricher.Apply(row, snapshot)
	return row, nil
}

// universe lists the symbols to compute, sorted for a deterministic
// fan-out order.
func universe(snapshot *contracts.MetaSnapshot, markets []contracts.Market) []contracts.Symbol {
	if len(markets) == 0 {
		markets = []contracts.Market{contracts.MarketKR, contracts.MarketUS}
	}

	var symbols []contracts.Symbol
	for _, m := range markets {
		codes := snapshot.Symbols(m)
		sort.Strings(codes)
		for _, code := range codes {
			meta, _ := snapshot.Get(m, code)
			symbols = append(symbols, contracts.Symbol{Code: code, Market: m, Name: meta.Name})
		}
	}
	return symbols
}
