package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wonny/hermes/internal/contracts"
)

// 시그널 조건 판정
// ⭐ SSOT: 개별 조건식은 이 파일에서만 — 번들은 bundles.go에서 조합
//
// 결측 지표는 0으로 들어온다. 모든 조건은 결측값과의 비교가 false가
// 되도록 가드를 건다.

// OBVBullishCross reports whether OBV crossed above its 9-day signal
// between yesterday and today. Equality is not a cross.
func OBVBullishCross(r *contracts.IndicatorRow) bool {
	if r.OBVSignal9Latest() == 0 && r.OBVSignal91Ago() == 0 {
		return false
	}
	return r.OBVLatest() > r.OBVSignal9Latest() && r.OBV1Ago() <= r.OBVSignal91Ago()
}

// OBVBearishCross reports whether OBV crossed below its 9-day signal.
func OBVBearishCross(r *contracts.IndicatorRow) bool {
	if r.OBVSignal9Latest() == 0 && r.OBVSignal91Ago() == 0 {
		return false
	}
	return r.OBVLatest() < r.OBVSignal9Latest() && r.OBV1Ago() >= r.OBVSignal91Ago()
}

// RSIRising3 checks a strict 3-day RSI ascent.
func RSIRising3(r *contracts.IndicatorRow) bool {
	if r.RSI2Ago() == 0 {
		return false
	}
	return r.RSI2Ago() < r.RSI1Ago() && r.RSI1Ago() < r.RSILatest()
}

// RSIFalling3 checks a strict 3-day RSI descent.
func RSIFalling3(r *contracts.IndicatorRow) bool {
	if r.RSILatest() == 0 {
		return false
	}
	return r.RSI2Ago() > r.RSI1Ago() && r.RSI1Ago() > r.RSILatest()
}

// RSIRisingLE50: 3일 연속 상승 + 당일 RSI 50 이하 (구버전 번들)
func RSIRisingLE50(r *contracts.IndicatorRow) bool {
	return RSIRising3(r) && r.RSILatest() <= 50
}

// RSIRisingBand40To60: 3일 연속 상승 + 당일 RSI 40~60 구간
func RSIRisingBand40To60(r *contracts.IndicatorRow) bool {
	return RSIRising3(r) && r.RSILatest() >= 40 && r.RSILatest() <= 60
}

// RSIOverbought reports RSI at or above 70.
func RSIOverbought(r *contracts.IndicatorRow) bool {
	return r.RSILatest() >= 70
}

// RSIWeakening: 3일 연속 하락 + 당일 RSI 50 이하
func RSIWeakening(r *contracts.IndicatorRow) bool {
	return RSIFalling3(r) && r.RSILatest() <= 50
}

// GoldenCross reports MA50 above MA200. Both averages must be defined.
func GoldenCross(r *contracts.IndicatorRow) bool {
	if r.MA50Latest() == 0 || r.MA200Latest() == 0 {
		return false
	}
	return r.MA50Latest() > r.MA200Latest()
}

// TradingSurge reports today's trading value at or above ratio times the
// 20-day average.
func TradingSurge(r *contracts.IndicatorRow, ratio float64) bool {
	if r.AvgTradingValue20D <= 0 {
		return false
	}
	return r.TodayTradingValue >= ratio*r.AvgTradingValue20D
}

// Breakout: 20일 신고가 돌파 또는 당일 MA20 상향 돌파
func Breakout(r *contracts.IndicatorRow) bool {
	if r.Break20High == 1 {
		return true
	}
	if r.MA20Latest() == 0 || r.MA201Ago() == 0 {
		return false
	}
	return r.CloseLatest() > r.MA20Latest() && r.Close1Ago() <= r.MA201Ago()
}

// OBVUptrend20 reports OBV above its 20-day signal.
func OBVUptrend20(r *contracts.IndicatorRow) bool {
	if r.OBVSignal20Latest() == 0 {
		return false
	}
	return r.OBVLatest() > r.OBVSignal20Latest()
}

// OBVCrossOrRising20: OBV가 20일 시그널 위에 있고, 시그널 자체가
// 상승 중이거나 최근 1~3관측 내에 9일 시그널 상향 돌파가 있었던 경우.
func OBVCrossOrRising20(r *contracts.IndicatorRow) bool {
	if !OBVUptrend20(r) {
		return false
	}
	if r.OBVSignal20Latest() > r.OBVSignal203Ago() && r.OBVSignal203Ago() != 0 {
		return true
	}
	return recentOBVCross(r)
}

// recentOBVCross scans the available obv/signal9 history pairs for an
// upward cross.
func recentOBVCross(r *contracts.IndicatorRow) bool {
	obv := r.OBV3
	sig := r.OBVSignal9
	for i := 0; i+1 < len(obv) && i+1 < len(sig); i++ {
		if sig[i] == 0 && sig[i+1] == 0 {
			continue
		}
		if obv[i] > sig[i] && obv[i+1] <= sig[i+1] {
			return true
		}
	}
	return false
}

// OwnershipPositive sums the trailing foreign net-buy window.
func OwnershipPositive(r *contracts.IndicatorRow, window int) bool {
	return contracts.FlowSum(r.ForeignNetBuy, window) > 0
}

// OwnershipNegative sums the trailing foreign net-buy window.
func OwnershipNegative(r *contracts.IndicatorRow, window int) bool {
	return contracts.FlowSum(r.ForeignNetBuy, window) < 0
}

// InstOwnershipPositive sums the trailing institutional net-buy window.
func InstOwnershipPositive(r *contracts.IndicatorRow, window int) bool {
	return contracts.FlowSum(r.InstNetBuy, window) > 0
}

// InstOwnershipNegative sums the trailing institutional net-buy window.
func InstOwnershipNegative(r *contracts.IndicatorRow, window int) bool {
	return contracts.FlowSum(r.InstNetBuy, window) < 0
}

// CandleBullish: 최근 5일 중 양봉 우세
func CandleBullish(r *contracts.IndicatorRow) bool {
	return r.UpperCloses > r.LowerCloses
}

// CandleBearish: 최근 5일 중 음봉 우세 이상
func CandleBearish(r *contracts.IndicatorRow) bool {
	return r.LowerCloses >= r.UpperCloses
}

// ValueFilter: EPS 양수이고 PER 3~30 구간 (구버전 번들의 가치 필터)
func ValueFilter(r *contracts.IndicatorRow) bool {
	return r.EPS > 0 && r.PER >= 3 && r.PER <= 30
}

var trendPctRe = regexp.MustCompile(`[+-]?\d+(\.\d+)?%`)

// SectorTrendPct extracts the percentage embedded in a sector trend label
// like "상승(+4.01%) TIGER 200 금융". Returns false when no percentage is
// present (including the "N/A" default).
func SectorTrendPct(trend string) (float64, bool) {
	m := trendPctRe.FindString(trend)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(m, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SectorPositive reports a rising sector trend.
func SectorPositive(r *contracts.IndicatorRow) bool {
	pct, ok := SectorTrendPct(r.SectorTrend)
	return ok && pct > 0
}

// SectorNegative reports a falling sector trend.
func SectorNegative(r *contracts.IndicatorRow) bool {
	pct, ok := SectorTrendPct(r.SectorTrend)
	return ok && pct < 0
}
