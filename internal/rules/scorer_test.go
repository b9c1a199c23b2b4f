package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/hermes/internal/contracts"
)

// 만점에 가까운 단기 행
func strongShortRow() *contracts.IndicatorRow {
	return &contracts.IndicatorRow{
		OBV3:               []float64{110, 90, 80},
		OBVSignal9:         []float64{95, 100, 100},
		Break20High:        1,
		AvgTradingValue20D: 1e9,
		TodayTradingValue:  2.5e9,
		ForeignNetBuy:      []float64{100, 50, 0, 0, 0},
		InstNetBuy:         []float64{30, 10, 0, 0, 0},
		UpperCloses:        4,
		LowerCloses:        1,
		SectorTrend:        "상승(+2.3%) TIGER 200 IT",
	}
}

func TestShortScoreFull(t *testing.T) {
	s := ShortTerm().Score(strongShortRow())
	assert.Equal(t, 7, s.Points)
	assert.Equal(t, 4, s.Grade)
	assert.Equal(t, "매우 강함", s.Tier)
}

func TestShortScoreTiers(t *testing.T) {
	cases := []struct {
		points int
		grade  int
	}{
		{7, 4}, {6, 3}, {5, 3}, {4, 2}, {3, 2}, {2, 1}, {1, 0}, {0, 0},
	}
	for _, c := range cases {
		s := gradeBuyShort(c.points)
		assert.Equal(t, c.grade, s.Grade, "points=%d", c.points)
	}
}

func TestMidScoreTiers(t *testing.T) {
	cases := []struct {
		points int
		grade  int
	}{
		{8, 4}, {7, 3}, {6, 3}, {5, 2}, {4, 2}, {3, 1}, {2, 1}, {1, 0}, {0, 0},
	}
	for _, c := range cases {
		s := gradeBuyMid(c.points)
		assert.Equal(t, c.grade, s.Grade, "points=%d", c.points)
	}
}

func TestSellScoreTiers(t *testing.T) {
	assert.Equal(t, "안전", gradeSell(0).Tier)
	assert.Equal(t, "안전", gradeSell(2).Tier)
	assert.Equal(t, "주의", gradeSell(3).Tier)
	assert.Equal(t, "주의", gradeSell(4).Tier)
	assert.Equal(t, "강력 매도", gradeSell(5).Tier)
	assert.Equal(t, "강력 매도", gradeSell(7).Tier)
}

func TestScoreBounds(t *testing.T) {
	empty := &contracts.IndicatorRow{}
	assert.Equal(t, 0, ShortTerm().Score(empty).Points)
	assert.Equal(t, 0, MidTerm().Score(empty).Points)
	// 빈 행은 캔들 동률(0:0)만 잡혀 매도 1점, 등급은 "안전"
	assert.Equal(t, 1, Sell().Score(empty).Points)
	assert.Equal(t, "안전", Sell().Score(empty).Tier)
}

func TestSellScoreComponents(t *testing.T) {
	row := &contracts.IndicatorRow{
		RSI3:          []float64{80, 76, 72}, // overbought (하락 중이어도 50 초과라 weakening은 아님)
		OBV3:          []float64{80, 105, 110},
		OBVSignal9:    []float64{95, 100, 100},
		ForeignNetBuy: []float64{-100, -50, 0, 0, 0},
		InstNetBuy:    []float64{-30, -10, 0, 0, 0},
		UpperCloses:   1,
		LowerCloses:   4,
		SectorTrend:   "하락(-1.1%) TIGER 200 금융",
	}
	s := Sell().Score(row)
	assert.Equal(t, 6, s.Points)
	assert.Equal(t, 2, s.Grade)
	assert.Equal(t, "강력 매도", s.Tier)
}

func TestScoreIndependentOfEntryMatch(t *testing.T) {
	// 진입 조건을 통과하지 못한 행도 점수는 계산된다
	row := &contracts.IndicatorRow{
		ForeignNetBuy: []float64{100, 50, 0, 0, 0},
		UpperCloses:   3,
		LowerCloses:   1,
	}
	assert.False(t, ShortTerm().Matches(row))
	assert.Equal(t, 2, ShortTerm().Score(row).Points)
}
