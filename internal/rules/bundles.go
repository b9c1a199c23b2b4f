package rules

import "github.com/wonny/hermes/internal/contracts"

// Ordering selects how matched candidates are ranked before the top-N cut.
type Ordering string

const (
	// OrderByMarketCapDesc is the default: largest caps first.
	OrderByMarketCapDesc Ordering = "market_cap_desc"
	// OrderByRSIAsc ranks the most oversold first (구버전 번들).
	OrderByRSIAsc Ordering = "rsi_asc"
)

// Bundle is a named, swappable rule configuration. Entry conditions and
// scoring both read their tunables from here, so swapping a bundle swaps
// the whole behavior.
// ⭐ SSOT: 번들 구성값은 이 파일에서만
type Bundle struct {
	Name         string
	Rule         contracts.RuleType
	FlowWindow   int     // 수급 합산 일수
	SurgeRatio   float64 // 거래대금 급증 배수 (진입 조건)
	Ordering     Ordering
	legacyEntry  bool
}

// 현행 번들: 수급 판정은 최근 2일 합
const currentFlowWindow = 2

// 구버전 번들: 5일 합 + RSI 오름차순 + 가치 필터
const legacyFlowWindow = 5

func ShortTerm() Bundle {
	return Bundle{
		Name:       "short_v2",
		Rule:       contracts.RuleShort,
		FlowWindow: currentFlowWindow,
		SurgeRatio: 2.0,
		Ordering:   OrderByMarketCapDesc,
	}
}

func MidTerm() Bundle {
	return Bundle{
		Name:       "mid_v2",
		Rule:       contracts.RuleMid,
		FlowWindow: currentFlowWindow,
		SurgeRatio: 1.0,
		Ordering:   OrderByMarketCapDesc,
	}
}

func Sell() Bundle {
	return Bundle{
		Name:       "sell_v2",
		Rule:       contracts.RuleSell,
		FlowWindow: currentFlowWindow,
		Ordering:   OrderByMarketCapDesc,
	}
}

// LegacyShort is the first-generation entry rule, kept runnable for
// comparison against the current bundles.
func LegacyShort() Bundle {
	return Bundle{
		Name:        "short_v1",
		Rule:        contracts.RuleShort,
		FlowWindow:  legacyFlowWindow,
		SurgeRatio:  2.0,
		Ordering:    OrderByRSIAsc,
		legacyEntry: true,
	}
}

// All returns the bundles the batch runs by default.
func All() []Bundle {
	return []Bundle{ShortTerm(), MidTerm(), Sell()}
}

// Matches evaluates the bundle's entry condition against one row.
func (b Bundle) Matches(r *contracts.IndicatorRow) bool {
	if b.legacyEntry {
		return OBVBullishCross(r) && RSIRisingLE50(r) && ValueFilter(r)
	}

	switch b.Rule {
	case contracts.RuleShort:
		return OBVBullishCross(r) && TradingSurge(r, b.SurgeRatio) && Breakout(r)
	case contracts.RuleMid:
		return RSIRisingBand40To60(r) && OBVCrossOrRising20(r) &&
			GoldenCross(r) && TradingSurge(r, b.SurgeRatio)
	case contracts.RuleSell:
		return RSIOverbought(r) || OBVBearishCross(r) || RSIWeakening(r)
	default:
		return false
	}
}
