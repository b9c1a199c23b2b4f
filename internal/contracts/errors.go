package contracts

import "errors"

// Sentinel errors shared across the pipeline.
// 심볼 단위 실패는 로그 후 스킵 — 배치 전체를 중단시키지 않는다.
var (
	// ErrNoData is returned when a symbol has no bar series at all
	ErrNoData = errors.New("no bar data for symbol")

	// ErrInsufficientHistory marks an indicator window that cannot be filled.
	// Callers degrade the indicator to zeros instead of failing the row.
	ErrInsufficientHistory = errors.New("insufficient history for indicator window")

	// ErrUnresolvableClose is returned by the backtest tracker when no close
	// exists at or before the target date; the record stays pending.
	ErrUnresolvableClose = errors.New("no resolvable close at or before target date")
)
