package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/hermes/internal/contracts"
)

func TestOBVBullishCross(t *testing.T) {
	// 어제 obv 90 ≤ signal 95, 오늘 obv 90 < signal 95 → 돌파 아님
	r := &contracts.IndicatorRow{
		OBV3:       []float64{90, 100, 110},
		OBVSignal9: []float64{95, 95, 95},
	}
	assert.False(t, OBVBullishCross(r))

	// 어제 90 ≤ 100, 오늘 110 > 95 → 돌파
	r = &contracts.IndicatorRow{
		OBV3:       []float64{110, 90, 80},
		OBVSignal9: []float64{95, 100, 100},
	}
	assert.True(t, OBVBullishCross(r))
}

func TestOBVBullishCrossEqualityIsNotACross(t *testing.T) {
	// 오늘 obv == signal → 돌파 아님
	r := &contracts.IndicatorRow{
		OBV3:       []float64{95, 90, 80},
		OBVSignal9: []float64{95, 100, 100},
	}
	assert.False(t, OBVBullishCross(r))
}

func TestOBVBearishCross(t *testing.T) {
	r := &contracts.IndicatorRow{
		OBV3:       []float64{80, 105, 110},
		OBVSignal9: []float64{95, 100, 100},
	}
	assert.True(t, OBVBearishCross(r))

	// 시그널 결측 → false
	assert.False(t, OBVBearishCross(&contracts.IndicatorRow{OBV3: []float64{-10, 10, 10}}))
}

func TestRSIRising3Bands(t *testing.T) {
	r := &contracts.IndicatorRow{RSI3: []float64{35, 40, 45}}
	assert.True(t, RSIRising3(r))
	assert.True(t, RSIRisingLE50(r))
	assert.True(t, RSIRisingBand40To60(r))

	// 상승이지만 50 초과 → le50 탈락, 40~60 구간은 유지
	r = &contracts.IndicatorRow{RSI3: []float64{45, 50, 55}}
	assert.False(t, RSIRisingLE50(r))
	assert.True(t, RSIRisingBand40To60(r))

	// 61은 구간 밖
	r = &contracts.IndicatorRow{RSI3: []float64{45, 50, 61}}
	assert.False(t, RSIRisingBand40To60(r))

	// 결측 RSI는 어떤 비교도 통과하지 못한다
	assert.False(t, RSIRising3(&contracts.IndicatorRow{RSI3: []float64{0, 0, 0}}))
	assert.False(t, RSIRising3(&contracts.IndicatorRow{RSI3: []float64{0, 40, 45}}))
}

func TestRSIWeakening(t *testing.T) {
	assert.True(t, RSIWeakening(&contracts.IndicatorRow{RSI3: []float64{55, 50, 45}}))
	assert.False(t, RSIWeakening(&contracts.IndicatorRow{RSI3: []float64{80, 75, 72}}))
	assert.False(t, RSIWeakening(&contracts.IndicatorRow{RSI3: []float64{0, 0, 0}}))
}

func TestGoldenCrossGuardsMissingMA(t *testing.T) {
	assert.True(t, GoldenCross(&contracts.IndicatorRow{
		MA50:  []float64{110, 0, 0},
		MA200: []float64{100, 0, 0},
	}))

	// MA200 결측이면 MA50이 아무리 커도 false
	assert.False(t, GoldenCross(&contracts.IndicatorRow{
		MA50:  []float64{110, 0, 0},
		MA200: []float64{0, 0, 0},
	}))
}

func TestTradingSurge(t *testing.T) {
	r := &contracts.IndicatorRow{AvgTradingValue20D: 1e9, TodayTradingValue: 2e9}
	assert.True(t, TradingSurge(r, 2.0))
	assert.False(t, TradingSurge(r, 2.1))

	// 평균이 0이면 판정 불가
	assert.False(t, TradingSurge(&contracts.IndicatorRow{TodayTradingValue: 1e9}, 1.0))
}

func TestBreakout(t *testing.T) {
	assert.True(t, Breakout(&contracts.IndicatorRow{Break20High: 1}))

	// MA20 상향 돌파
	r := &contracts.IndicatorRow{
		Close3: []float64{105, 99, 98},
		MA20:   []float64{100, 100, 100},
	}
	assert.True(t, Breakout(r))

	// 이미 위에 있던 경우는 돌파가 아니다
	r = &contracts.IndicatorRow{
		Close3: []float64{105, 101, 98},
		MA20:   []float64{100, 100, 100},
	}
	assert.False(t, Breakout(r))
}

func TestOBVCrossOrRising20(t *testing.T) {
	// 20일 시그널 위 + 시그널 상승
	r := &contracts.IndicatorRow{
		OBV3:        []float64{120, 115, 110},
		OBVSignal9:  []float64{100, 100, 100},
		OBVSignal20: []float64{105, 103, 101, 99},
	}
	assert.True(t, OBVCrossOrRising20(r))

	// 20일 시그널 아래면 무조건 false
	r = &contracts.IndicatorRow{
		OBV3:        []float64{90, 115, 110},
		OBVSignal20: []float64{105, 103, 101, 99},
	}
	assert.False(t, OBVCrossOrRising20(r))

	// 시그널은 하락 중이지만 최근 9일 시그널 상향 돌파가 있는 경우
	r = &contracts.IndicatorRow{
		OBV3:        []float64{120, 90, 80},
		OBVSignal9:  []float64{100, 100, 100},
		OBVSignal20: []float64{105, 106, 107, 108},
	}
	assert.True(t, OBVCrossOrRising20(r))
}

func TestOwnershipWindows(t *testing.T) {
	r := &contracts.IndicatorRow{
		ForeignNetBuy: []float64{10, -5, -100, 0, 0},
		InstNetBuy:    []float64{-1, -1, 50, 0, 0},
	}

	// 2일 합: 외국인 +5, 기관 -2
	assert.True(t, OwnershipPositive(r, 2))
	assert.True(t, InstOwnershipNegative(r, 2))

	// 5일 합: 외국인 -95, 기관 +48
	assert.True(t, OwnershipNegative(r, 5))
	assert.True(t, InstOwnershipPositive(r, 5))
}

func TestCandleBias(t *testing.T) {
	assert.True(t, CandleBullish(&contracts.IndicatorRow{UpperCloses: 3, LowerCloses: 2}))
	assert.False(t, CandleBullish(&contracts.IndicatorRow{UpperCloses: 2, LowerCloses: 2}))
	assert.True(t, CandleBearish(&contracts.IndicatorRow{UpperCloses: 2, LowerCloses: 2}))

	// 카운트가 전부 0이어도 동률이므로 약세 판정, 강세는 아님
	assert.True(t, CandleBearish(&contracts.IndicatorRow{}))
	assert.False(t, CandleBullish(&contracts.IndicatorRow{}))
}

func TestValueFilter(t *testing.T) {
	assert.True(t, ValueFilter(&contracts.IndicatorRow{PER: 15, EPS: 1000}))
	assert.False(t, ValueFilter(&contracts.IndicatorRow{PER: 31, EPS: 1000}))
	assert.False(t, ValueFilter(&contracts.IndicatorRow{PER: 2.9, EPS: 1000}))
	assert.False(t, ValueFilter(&contracts.IndicatorRow{PER: 15, EPS: 0}))
}

func TestSectorTrendPct(t *testing.T) {
	pct, ok := SectorTrendPct("상승(+4.01%) TIGER 200 금융")
	assert.True(t, ok)
	assert.Equal(t, 4.01, pct)

	pct, ok = SectorTrendPct("하락(-1.2%) TIGER 200 IT")
	assert.True(t, ok)
	assert.Equal(t, -1.2, pct)

	_, ok = SectorTrendPct("N/A")
	assert.False(t, ok)
}

func TestSectorDirection(t *testing.T) {
	up := &contracts.IndicatorRow{SectorTrend: "상승(+4.01%) TIGER 200 금융"}
	assert.True(t, SectorPositive(up))
	assert.False(t, SectorNegative(up))

	down := &contracts.IndicatorRow{SectorTrend: "하락(-0.5%) TIGER 200 에너지화학"}
	assert.True(t, SectorNegative(down))

	// 라벨이 없으면 양쪽 다 false
	none := &contracts.IndicatorRow{SectorTrend: "N/A"}
	assert.False(t, SectorPositive(none))
	assert.False(t, SectorNegative(none))
}

func TestBundleMatches(t *testing.T) {
	row := &contracts.IndicatorRow{
		OBV3:               []float64{110, 90, 80},
		OBVSignal9:         []float64{95, 100, 100},
		Break20High:        1,
		AvgTradingValue20D: 1e9,
		TodayTradingValue:  2.5e9,
	}
	assert.True(t, ShortTerm().Matches(row))

	// 거래대금 급증 미달 → 단기 진입 탈락
	row.TodayTradingValue = 1.5e9
	assert.False(t, ShortTerm().Matches(row))
}

func TestLegacyBundleMatches(t *testing.T) {
	row := &contracts.IndicatorRow{
		OBV3:       []float64{110, 90, 80},
		OBVSignal9: []float64{95, 100, 100},
		RSI3:       []float64{35, 40, 45},
		PER:        12,
		EPS:        500,
	}
	assert.True(t, LegacyShort().Matches(row))

	// 가치 필터 탈락
	row.EPS = 0
	assert.False(t, LegacyShort().Matches(row))
}

func TestSellBundleMatchesAnyBranch(t *testing.T) {
	assert.True(t, Sell().Matches(&contracts.IndicatorRow{RSI3: []float64{60, 65, 72}}))
	assert.True(t, Sell().Matches(&contracts.IndicatorRow{RSI3: []float64{55, 50, 45}}))
	assert.False(t, Sell().Matches(&contracts.IndicatorRow{RSI3: []float64{40, 45, 50}}))
}
