package contracts

import "time"

// RuleType names one screening rule bundle
type RuleType string

const (
	RuleShort RuleType = "short" // 단기
	RuleMid   RuleType = "mid"   // 중기
	RuleSell  RuleType = "sell"  // 매도
)

// Valid reports whether the rule type is known
func (r RuleType) Valid() bool {
	return r == RuleShort || r == RuleMid || r == RuleSell
}

// HorizonDays returns the holding horizon in calendar days used by the
// backtest tracker. Sell candidates are tracked with the short horizon.
func (r RuleType) HorizonDays() int {
	if r == RuleMid {
		return 90
	}
	return 30
}

// Candidate is a row selected by one rule bundle at a point in time.
// It seeds a BacktestRecord.
type Candidate struct {
	Row       IndicatorRow `json:"row"`
	RuleType  RuleType     `json:"rule_type"`
	BaseDate  time.Time    `json:"base_date"`
	BaseClose float64      `json:"base_close"`
	Score     int          `json:"score"`
	Tier      string       `json:"tier"`
}
