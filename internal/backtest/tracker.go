package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

const dateLayout = "2006-01-02"

// 기준가 대비 마일스톤 배수
const (
	milestone5Pct  = 1.05
	milestone10Pct = 1.10
)

// Tracker drives the pending → completed state machine for screener
// candidates. Single writer per run.
// ⭐ SSOT: 백테스트 상태 전이는 이 파일에서만
type Tracker struct {
	store  contracts.BacktestStore
	bars   contracts.BarRepository
	logger *logger.Logger
}

func NewTracker(store contracts.BacktestStore, bars contracts.BarRepository, log *logger.Logger) *Tracker {
	return &Tracker{store: store, bars: bars, logger: log}
}

// Seed registers today's candidates as pending records. A candidate whose
// natural key already completed is never re-opened; re-seeding an existing
// pending key overwrites it with identical base fields, so the call is
// idempotent within a day.
func (t *Tracker) Seed(ctx context.Context, candidates []contracts.Candidate, today time.Time) error {
	today = dateOnly(today)

	for _, c := range candidates {
		base := dateOnly(c.BaseDate)
		rec := contracts.BacktestRecord{
			Symbol:       c.Row.Symbol,
			Market:       c.Row.Market,
			RuleType:     c.RuleType,
			BaseDate:     base,
			TargetDate:   base.AddDate(0, 0, c.RuleType.HorizonDays()),
			BaseClose:    c.BaseClose,
			LatestClose:  c.BaseClose,
			LatestUpdate: today,
		}

		done, err := t.store.HasCompleted(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to check completed log: %w", err)
		}
		if done {
			continue
		}

		if err := t.store.UpsertPending(ctx, rec); err != nil {
			return fmt.Errorf("failed to seed pending record %s: %w", rec.Key(), err)
		}
	}

	return nil
}

// Refresh advances every pending record: updates the latest close and
// change rate, rescans milestones, and completes records whose target
// date has arrived. Safe to run repeatedly; a record whose target close
// cannot be resolved stays pending.
func (t *Tracker) Refresh(ctx context.Context, snapshot *contracts.MetaSnapshot, today time.Time) error {
	today = dateOnly(today)

	pending, err := t.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending records: %w", err)
	}

	var completed int
	for _, rec := range pending {
		done, err := t.store.HasCompleted(ctx, rec)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		bars, err := t.bars.GetSeries(ctx, rec.Market, rec.Symbol)
		if err != nil {
			// 심볼 단위 실패는 스킵 — 레코드는 pending으로 남는다
			t.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol": rec.Symbol,
				"market": rec.Market,
			}).Warn("봉 시계열 조회 실패, 백테스트 갱신 스킵")
			continue
		}

		rec.Date5Pct, rec.Date10Pct = scanMilestones(bars, rec.BaseDate, rec.TargetDate, rec.BaseClose)
		rec.LatestClose = latestClose(snapshot, rec, bars)
		rec.LatestUpdate = today
		rec.ChangeRate = contracts.ChangeRatePct(rec.BaseClose, rec.LatestClose)

		if !today.Before(rec.TargetDate) {
			final, err := closeAtOrBefore(bars, rec.BaseDate, rec.TargetDate)
			if err == nil {
				rec.FinalClose = final
				rec.FinalChangeRate = contracts.ChangeRatePct(rec.BaseClose, final)
				// 완료 레코드의 최신가는 확정 종가로 고정한다
				rec.LatestClose = final
				rec.ChangeRate = rec.FinalChangeRate
				rec.Completed = true
				if err := t.store.Complete(ctx, rec); err != nil {
					return fmt.Errorf("failed to complete record %s: %w", rec.Key(), err)
				}
				completed++
				continue
			}
			if !errors.Is(err, contracts.ErrUnresolvableClose) {
				return err
			}
			t.logger.WithFields(map[string]interface{}{
				"symbol": rec.Symbol,
				"target": rec.TargetDate.Format(dateLayout),
			}).Warn("목표일 종가 미확정, pending 유지")
		}

		if err := t.store.UpsertPending(ctx, rec); err != nil {
			return fmt.Errorf("failed to update pending record %s: %w", rec.Key(), err)
		}
	}

	t.logger.WithFields(map[string]interface{}{
		"pending":   len(pending),
		"completed": completed,
	}).Info("백테스트 갱신 완료")

	return nil
}

// scanMilestones finds the first trading day strictly after base date and
// no later than target date whose close reaches +5% / +10% of base.
// Recomputed from scratch every run so the result never depends on when
// the refresh happened.
func scanMilestones(bars []contracts.DailyBar, base, target time.Time, baseClose float64) (date5, date10 string) {
	if baseClose <= 0 {
		return "", ""
	}

	for _, b := range bars {
		d := dateOnly(b.Date)
		if !d.After(base) || d.After(target) {
			continue
		}
		if date5 == "" && b.Close >= baseClose*milestone5Pct {
			date5 = d.Format(dateLayout)
		}
		if date10 == "" && b.Close >= baseClose*milestone10Pct {
			date10 = d.Format(dateLayout)
		}
		if date5 != "" && date10 != "" {
			break
		}
	}

	return date5, date10
}

// latestClose prefers the metadata snapshot's current close, falling back
// to the last bar when the snapshot has no entry.
func latestClose(snapshot *contracts.MetaSnapshot, rec contracts.BacktestRecord, bars []contracts.DailyBar) float64 {
	if snapshot != nil {
		if meta, ok := snapshot.Get(rec.Market, rec.Symbol); ok && meta.Close > 0 {
			return meta.Close
		}
	}
	if len(bars) > 0 {
		return bars[len(bars)-1].Close
	}
	return rec.LatestClose
}

// closeAtOrBefore resolves the final close: the bar on the target date,
// or the nearest earlier trading day still after the base date.
func closeAtOrBefore(bars []contracts.DailyBar, base, target time.Time) (float64, error) {
	for i := len(bars) - 1; i >= 0; i-- {
		d := dateOnly(bars[i].Date)
		if d.After(target) {
			continue
		}
		if !d.After(base) {
			break
		}
		return bars[i].Close, nil
	}
	return 0, contracts.ErrUnresolvableClose
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
