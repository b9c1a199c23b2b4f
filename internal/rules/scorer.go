package rules

import "github.com/wonny/hermes/internal/contracts"

// 점수 집계와 등급 매핑
// 진입 조건과 무관하게 모든 행에 대해 계산할 수 있다.

// Score is one row's point tally under a bundle, with its mapped tier.
type Score struct {
	Points int
	Grade  int
	Tier   string
}

// 매수 등급 라벨 (단기/중기 공용)
var buyTiers = [...]string{"매우 약함", "약함", "보통", "강함", "매우 강함"}

// 매도 등급 라벨
var sellTiers = [...]string{"안전", "주의", "강력 매도"}

// Score tallies the bundle's point components for one row. Each satisfied
// component adds exactly one point.
func (b Bundle) Score(r *contracts.IndicatorRow) Score {
	switch b.Rule {
	case contracts.RuleShort:
		return gradeBuyShort(tally(
			OBVBullishCross(r),
			TradingSurge(r, b.SurgeRatio),
			Breakout(r),
			OwnershipPositive(r, b.FlowWindow),
			InstOwnershipPositive(r, b.FlowWindow),
			CandleBullish(r),
			SectorPositive(r),
		))
	case contracts.RuleMid:
		return gradeBuyMid(tally(
			RSIRisingBand40To60(r),
			OBVCrossOrRising20(r),
			GoldenCross(r),
			TradingSurge(r, b.SurgeRatio),
			OwnershipPositive(r, b.FlowWindow),
			InstOwnershipPositive(r, b.FlowWindow),
			CandleBullish(r),
			SectorPositive(r),
		))
	case contracts.RuleSell:
		return gradeSell(tally(
			RSIOverbought(r),
			RSIWeakening(r),
			OBVBearishCross(r),
			OwnershipNegative(r, b.FlowWindow),
			InstOwnershipNegative(r, b.FlowWindow),
			CandleBearish(r),
			SectorNegative(r),
		))
	default:
		return Score{}
	}
}

func tally(conds ...bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}

// 단기: 0~7점 → 0~4등급
func gradeBuyShort(points int) Score {
	var grade int
	switch {
	case points >= 7:
		grade = 4
	case points >= 5:
		grade = 3
	case points >= 3:
		grade = 2
	case points >= 2:
		grade = 1
	}
	return Score{Points: points, Grade: grade, Tier: buyTiers[grade]}
}

// 중기: 0~8점 → 0~4등급
func gradeBuyMid(points int) Score {
	var grade int
	switch {
	case points >= 8:
		grade = 4
	case points >= 6:
		grade = 3
	case points >= 4:
		grade = 2
	case points >= 2:
		grade = 1
	}
	return Score{Points: points, Grade: grade, Tier: buyTiers[grade]}
}

// 매도: 0~7점 → 안전/주의/강력 매도
func gradeSell(points int) Score {
	var grade int
	switch {
	case points >= 5:
		grade = 2
	case points >= 3:
		grade = 1
	}
	return Score{Points: points, Grade: grade, Tier: sellTiers[grade]}
}
