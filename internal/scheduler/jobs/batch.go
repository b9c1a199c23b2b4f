package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/hermes/internal/backtest"
	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/internal/pipeline"
	"github.com/wonny/hermes/internal/rules"
	"github.com/wonny/hermes/internal/screener"
	"github.com/wonny/hermes/pkg/logger"
)

// BatchJob is the daily end-to-end run: indicator batch, all rule
// bundles, result persistence, backtest seed + refresh.
// 장 마감 후 1회 실행을 전제로 한다.
type BatchJob struct {
	runner   *pipeline.Runner
	results  contracts.ResultStore
	tracker  *backtest.Tracker
	meta     contracts.MetaRepository
	markets  []contracts.Market
	topN     int
	schedule string
	logger   *logger.Logger
}

func NewBatchJob(
	runner *pipeline.Runner,
	results contracts.ResultStore,
	tracker *backtest.Tracker,
	meta contracts.MetaRepository,
	markets []contracts.Market,
	topN int,
	schedule string,
	log *logger.Logger,
) *BatchJob {
	return &BatchJob{
		runner: runner, results: results, tracker: tracker, meta: meta,
		markets: markets, topN: topN, schedule: schedule, logger: log,
	}
}

func (j *BatchJob) Name() string     { return "daily-batch" }
func (j *BatchJob) Schedule() string { return j.schedule }

func (j *BatchJob) Run(ctx context.Context) error {
	today := time.Now()

	rows, stats, err := j.runner.Run(ctx, j.markets)
	if err != nil {
		return fmt.Errorf("indicator batch failed: %w", err)
	}

	var seeded []contracts.Candidate
	for _, bundle := range rules.All() {
		candidates := screener.Evaluate(rows, bundle, screener.Options{
			Markets: j.markets,
			TopN:    j.topN,
			AsOf:    today,
		})

		if err := j.results.ReplaceResults(ctx, bundle.Rule, candidates); err != nil {
			return fmt.Errorf("failed to persist %s results: %w", bundle.Rule, err)
		}
		seeded = append(seeded, candidates...)
	}

	if err := j.tracker.Seed(ctx, seeded, today); err != nil {
		return fmt.Errorf("failed to seed backtests: %w", err)
	}

	snapshot, err := j.meta.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load metadata snapshot: %w", err)
	}
	if err := j.tracker.Refresh(ctx, snapshot, today); err != nil {
		return fmt.Errorf("failed to refresh backtests: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"computed":   stats.Computed,
		"skipped":    stats.Skipped,
		"candidates": len(seeded),
	}).Info("일일 배치 완료")

	return nil
}
