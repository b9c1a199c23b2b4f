package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// 인메모리 스토어 (natural key 기준)
type fakeStore struct {
	pending   map[string]contracts.BacktestRecord
	completed map[string]contracts.BacktestRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pending:   map[string]contracts.BacktestRecord{},
		completed: map[string]contracts.BacktestRecord{},
	}
}

func (s *fakeStore) ListPending(ctx context.Context) ([]contracts.BacktestRecord, error) {
	out := make([]contracts.BacktestRecord, 0, len(s.pending))
	for _, rec := range s.pending {
		out = append(out, rec)
	}
	return out, nil
}

func (s *fakeStore) UpsertPending(ctx context.Context, rec contracts.BacktestRecord) error {
	s.pending[rec.Key()] = rec
	return nil
}

func (s *fakeStore) Complete(ctx context.Context, rec contracts.BacktestRecord) error {
	if _, dup := s.completed[rec.Key()]; !dup {
		s.completed[rec.Key()] = rec
	}
	delete(s.pending, rec.Key())
	return nil
}

func (s *fakeStore) ListCompleted(ctx context.Context) ([]contracts.BacktestRecord, error) {
	out := make([]contracts.BacktestRecord, 0, len(s.completed))
	for _, rec := range s.completed {
		out = append(out, rec)
	}
	return out, nil
}

func (s *fakeStore) HasCompleted(ctx context.Context, rec contracts.BacktestRecord) (bool, error) {
	_, ok := s.completed[rec.Key()]
	return ok, nil
}

type fakeBars struct {
	series map[string][]contracts.DailyBar
}

func (b *fakeBars) GetSeries(ctx context.Context, market contracts.Market, symbol string) ([]contracts.DailyBar, error) {
	bars, ok := b.series[symbol]
	if !ok || len(bars) == 0 {
		return nil, contracts.ErrNoData
	}
	return bars, nil
}

func day(offset int) time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// 기준일 이후 매일 종가가 주어지는 시계열
func seriesFrom(closes map[int]float64, lastOffset int) []contracts.DailyBar {
	bars := make([]contracts.DailyBar, 0, lastOffset+1)
	prev := 100.0
	for i := 0; i <= lastOffset; i++ {
		c, ok := closes[i]
		if !ok {
			c = prev
		}
		prev = c
		bars = append(bars, contracts.DailyBar{Date: day(i), Close: c, High: c, Low: c, Volume: 1})
	}
	return bars
}

func shortCandidate(symbol string, baseClose float64) contracts.Candidate {
	return contracts.Candidate{
		Row:       contracts.IndicatorRow{Symbol: symbol, Market: contracts.MarketKR},
		RuleType:  contracts.RuleShort,
		BaseDate:  day(0),
		BaseClose: baseClose,
	}
}

func TestSeedCreatesPending(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{}, logger.Nop())

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.Len(t, store.pending, 1)

	for _, rec := range store.pending {
		assert.Equal(t, day(0), rec.BaseDate)
		assert.Equal(t, day(30), rec.TargetDate) // 단기 30일
		assert.Equal(t, 100.0, rec.BaseClose)
		assert.False(t, rec.Completed)
	}
}

func TestSeedSkipsAlreadyCompletedKey(t *testing.T) {
	store := newFakeStore()
	cand := shortCandidate("005930", 100)
	rec := contracts.BacktestRecord{
		Symbol: "005930", Market: contracts.MarketKR,
		RuleType: contracts.RuleShort, BaseDate: day(0),
	}
	store.completed[rec.Key()] = rec

	tr := NewTracker(store, &fakeBars{}, logger.Nop())
	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{cand}, day(0)))
	assert.Empty(t, store.pending)
}

func TestRefreshScenarioMilestonesAndCompletion(t *testing.T) {
	// 기준가 100: +10일에 106(5% 도달), +25일에 111(10% 도달),
	// 목표일(+30) 종가 108 → 수익률 8.0%로 완료
	bars := seriesFrom(map[int]float64{0: 100, 10: 106, 11: 104, 25: 111, 26: 107, 30: 108}, 30)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), nil, day(30)))

	assert.Empty(t, store.pending)
	require.Len(t, store.completed, 1)
	for _, rec := range store.completed {
		assert.True(t, rec.Completed)
		assert.Equal(t, day(10).Format("2006-01-02"), rec.Date5Pct)
		assert.Equal(t, day(25).Format("2006-01-02"), rec.Date10Pct)
		assert.Equal(t, 108.0, rec.FinalClose)
		assert.InDelta(t, 8.0, rec.FinalChangeRate, 1e-9)
	}
}

func TestRefreshBeforeTargetStaysPending(t *testing.T) {
	bars := seriesFrom(map[int]float64{0: 100, 5: 103}, 5)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), nil, day(5)))

	require.Len(t, store.pending, 1)
	assert.Empty(t, store.completed)
	for _, rec := range store.pending {
		assert.Equal(t, 103.0, rec.LatestClose)
		assert.InDelta(t, 3.0, rec.ChangeRate, 1e-9)
		assert.Equal(t, "", rec.Date5Pct)
	}
}

func TestRefreshPrefersSnapshotClose(t *testing.T) {
	bars := seriesFrom(map[int]float64{0: 100}, 3)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())
	snapshot := &contracts.MetaSnapshot{ByKey: map[contracts.MetaKey]contracts.SymbolMeta{
		{Market: contracts.MarketKR, Symbol: "005930"}: {Close: 104.5},
	}}

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), snapshot, day(3)))

	for _, rec := range store.pending {
		assert.Equal(t, 104.5, rec.LatestClose)
	}
}

func TestRefreshCompletionFixesLatestClose(t *testing.T) {
	// 완료 시점에는 스냅샷 현재가(130)가 아니라 확정 종가(108)가 최신가
	bars := seriesFrom(map[int]float64{0: 100, 30: 108}, 30)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())
	snapshot := &contracts.MetaSnapshot{ByKey: map[contracts.MetaKey]contracts.SymbolMeta{
		{Market: contracts.MarketKR, Symbol: "005930"}: {Close: 130},
	}}

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), snapshot, day(30)))

	require.Len(t, store.completed, 1)
	for _, rec := range store.completed {
		assert.Equal(t, 108.0, rec.LatestClose)
		assert.InDelta(t, 8.0, rec.ChangeRate, 1e-9)
		assert.Equal(t, 108.0, rec.FinalClose)
	}
}

func TestRefreshUnresolvableCloseStaysPending(t *testing.T) {
	// 기준일 이후 봉이 전혀 없으면 목표일이 지나도 완료할 수 없다
	bars := seriesFrom(map[int]float64{0: 100}, 0)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), nil, day(40)))

	require.Len(t, store.pending, 1)
	assert.Empty(t, store.completed)
}

func TestRefreshIdempotent(t *testing.T) {
	bars := seriesFrom(map[int]float64{0: 100, 10: 106, 30: 108}, 30)
	store := newFakeStore()
	tr := NewTracker(store, &fakeBars{series: map[string][]contracts.DailyBar{"005930": bars}}, logger.Nop())

	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(0)))
	require.NoError(t, tr.Refresh(context.Background(), nil, day(30)))
	first, err := store.ListCompleted(context.Background())
	require.NoError(t, err)

	// 같은 후보 재등록 + 재갱신해도 완료 로그는 그대로
	require.NoError(t, tr.Seed(context.Background(), []contracts.Candidate{shortCandidate("005930", 100)}, day(31)))
	require.NoError(t, tr.Refresh(context.Background(), nil, day(31)))

	second, err := store.ListCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Empty(t, store.pending)
}

func TestScanMilestonesWindowBounds(t *testing.T) {
	// 기준일 당일 도달은 무시, 목표일 이후 도달도 무시
	bars := []contracts.DailyBar{
		{Date: day(0), Close: 106},
		{Date: day(31), Close: 120},
	}
	d5, d10 := scanMilestones(bars, day(0), day(30), 100)
	assert.Equal(t, "", d5)
	assert.Equal(t, "", d10)
}

func TestCloseAtOrBefore(t *testing.T) {
	bars := seriesFrom(map[int]float64{0: 100, 28: 107}, 28)

	// 목표일(30)에 봉이 없으면 가장 가까운 이전 거래일(28)
	c, err := closeAtOrBefore(bars, day(0), day(30))
	require.NoError(t, err)
	assert.Equal(t, 107.0, c)

	// 기준일 이전 봉만 있으면 확정 불가
	_, err = closeAtOrBefore(bars[:1], day(0), day(30))
	assert.ErrorIs(t, err, contracts.ErrUnresolvableClose)
}

func TestHorizonDaysByRule(t *testing.T) {
	assert.Equal(t, 30, contracts.RuleShort.HorizonDays())
	assert.Equal(t, 90, contracts.RuleMid.HorizonDays())
	assert.Equal(t, 30, contracts.RuleSell.HorizonDays())
}
