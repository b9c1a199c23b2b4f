package indicator

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// 지표 파라미터
// ⭐ SSOT: 윈도우/기간 상수는 여기서만
const (
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	obvSignal9W  = 9
	obvSignal20W = 20
	ma20Window   = 20
	ma50Window   = 50
	ma200Window  = 200
	breakoutLook = 20 // 직전 20일 최고 종가 돌파 판정
	valueWindow  = 20 // 평균 거래대금 산출 일수
)

// Calculator computes the per-symbol indicator snapshot from a daily bar
// series. Input bars must be ordered oldest → newest.
type Calculator struct {
	logger *logger.Logger
}

func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Compute builds the indicator row for one symbol.
// Returns contracts.ErrNoData on an empty series. Short histories never
// fail: windows that cannot be filled come back as zeros.
func (c *Calculator) Compute(ctx context.Context, sym contracts.Symbol, bars []contracts.DailyBar) (*contracts.IndicatorRow, error) {
	if len(bars) == 0 {
		return nil, contracts.ErrNoData
	}
	if err := contracts.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("invalid series for %s/%s: %w", sym.Market, sym.Code, err)
	}

	n := len(bars)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	row := &contracts.IndicatorRow{
		Symbol:    sym.Code,
		Market:    sym.Market,
		Name:      sym.Name,
		UpdatedAt: time.Now(),
	}

	// RSI(14): 최근 3개, oldest → newest
	rsi := rsiSeries(closes, rsiPeriod)
	row.RSI3 = roundSlice(lastN(rsi, rsiPeriod, contracts.RSIHistoryLen, false), 2)

	// MACD(12,26,9): 최근 3개, oldest → newest
	macd, signal, signalFrom := macdSeries(closes)
	row.MACD3 = roundSlice(lastN(macd, macdSlow-1, contracts.MACDHistoryLen, false), 4)
	row.MACDSignal3 = roundSlice(lastN(signal, signalFrom, contracts.MACDHistoryLen, false), 4)

	// OBV와 시그널: 최근값이 [0]
	obv := obvSeries(closes, volumes)
	row.OBV3 = roundSlice(lastN(obv, 0, contracts.OBVHistoryLen, true), 0)
	row.OBVSignal9 = roundSlice(lastN(smaSeries(obv, obvSignal9W), obvSignal9W-1, contracts.OBVSignal9HistoryLen, true), 0)
	row.OBVSignal20 = roundSlice(lastN(smaSeries(obv, obvSignal20W), obvSignal20W-1, contracts.OBVSignal20HistoryLen, true), 0)

	// 종가/이동평균: 최근값이 [0]
	row.Close3 = roundSlice(lastN(closes, 0, contracts.CloseHistoryLen, true), 2)
	row.MA20 = roundSlice(lastN(smaSeries(closes, ma20Window), ma20Window-1, contracts.MAHistoryLen, true), 2)
	row.MA50 = roundSlice(lastN(smaSeries(closes, ma50Window), ma50Window-1, contracts.MAHistoryLen, true), 2)
	row.MA200 = roundSlice(lastN(smaSeries(closes, ma200Window), ma200Window-1, contracts.MAHistoryLen, true), 2)

	row.Break20High = break20High(closes)
	row.UpperCloses, row.LowerCloses = candleTally(bars, contracts.CandleWindow)

	row.TodayTradingValue = bars[n-1].TradingValue()
	row.AvgTradingValue20D = avgTradingValue(bars, valueWindow)

	return row, nil
}

// macdSeries returns the MACD line, its signal line, and the index from
// which the signal line is defined. MACD itself is defined from macdSlow-1.
func macdSeries(closes []float64) (macd, signal []float64, signalFrom int) {
	n := len(closes)
	macd = make([]float64, n)
	signal = make([]float64, n)
	signalFrom = n // nothing defined yet

	if n < macdSlow {
		return macd, signal, signalFrom
	}

	fast := emaSeries(closes, macdFast)
	slow := emaSeries(closes, macdSlow)
	for i := macdSlow - 1; i < n; i++ {
		macd[i] = fast[i] - slow[i]
	}

	// 시그널은 MACD가 정의된 구간 위에서 EMA(9)
	defined := macd[macdSlow-1:]
	if len(defined) < macdSignal {
		return macd, signal, signalFrom
	}
	sig := emaSeries(defined, macdSignal)
	signalFrom = macdSlow - 1 + macdSignal - 1
	copy(signal[macdSlow-1:], sig)

	return macd, signal, signalFrom
}

// break20High reports whether today's close exceeds the highest close of
// the prior 20 sessions (today excluded). Needs at least 21 bars.
func break20High(closes []float64) int {
	n := len(closes)
	if n < breakoutLook+1 {
		return 0
	}

	high := closes[n-breakoutLook-1]
	for _, c := range closes[n-breakoutLook : n-1] {
		if c > high {
			high = c
		}
	}
	if closes[n-1] > high {
		return 1
	}
	return 0
}

// candleTally counts upper vs lower closes over the trailing window.
// A close above 0.7 of the high-low range is upper, below 0.3 lower; the
// middle band and bars with high == low count toward neither.
func candleTally(bars []contracts.DailyBar, window int) (upper, lower int) {
	start := len(bars) - window
	if start < 0 {
		start = 0
	}

	for _, b := range bars[start:] {
		span := b.High - b.Low
		if span == 0 {
			continue
		}
		pos := (b.Close - b.Low) / span
		switch {
		case pos > 0.7:
			upper++
		case pos < 0.3:
			lower++
		}
	}

	return upper, lower
}

// avgTradingValue averages close*volume over up to the trailing window days.
func avgTradingValue(bars []contracts.DailyBar, window int) float64 {
	start := len(bars) - window
	if start < 0 {
		start = 0
	}

	tail := bars[start:]
	if len(tail) == 0 {
		return 0
	}

	var sum float64
	for _, b := range tail {
		sum += b.TradingValue()
	}
	return sum / float64(len(tail))
}
