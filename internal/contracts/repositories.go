package contracts

import (
	"context"
	"time"
)

// BarRepository supplies daily bar series, ordered oldest first.
// 데이터 수집은 외부 협력자 — 여기서는 읽기 계약만 정의
type BarRepository interface {
	// GetSeries returns the full daily series for a symbol; an absent or
	// empty series returns ErrNoData
	GetSeries(ctx context.Context, market Market, symbol string) ([]DailyBar, error)
}

// MetaRepository supplies the per-symbol metadata snapshot
type MetaRepository interface {
	// Snapshot returns a read-only view of all symbol metadata
	Snapshot(ctx context.Context) (*MetaSnapshot, error)
}

// IndicatorStore is the materialized view of computed rows, one per symbol,
// wholesale-replaced each batch run (atomic swap)
type IndicatorStore interface {
	ReplaceAll(ctx context.Context, rows []IndicatorRow) error
	List(ctx context.Context, markets []Market) ([]IndicatorRow, error)
	Get(ctx context.Context, market Market, symbol string) (*IndicatorRow, error)
}

// ResultStore persists per-rule-bundle screener result sets as flat exports
type ResultStore interface {
	ReplaceResults(ctx context.Context, rule RuleType, candidates []Candidate) error
	ListResults(ctx context.Context, rule RuleType) ([]Candidate, error)
}

// BacktestStore persists the pending table and the append-only completed log
type BacktestStore interface {
	ListPending(ctx context.Context) ([]BacktestRecord, error)
	UpsertPending(ctx context.Context, rec BacktestRecord) error
	// Complete moves a record out of pending into the completed log;
	// re-completion of an existing natural key is a no-op
	Complete(ctx context.Context, rec BacktestRecord) error
	ListCompleted(ctx context.Context) ([]BacktestRecord, error)
	// HasCompleted reports whether the natural key already completed
	HasCompleted(ctx context.Context, rec BacktestRecord) (bool, error)
}

// RefreshMarker records when the last successful batch finished
type RefreshMarker interface {
	SetLastRefresh(ctx context.Context, at time.Time) error
	LastRefresh(ctx context.Context) (time.Time, bool, error)
}
