package contracts

import (
	"fmt"
	"time"
)

// BacktestRecord tracks one screener candidate's forward outcome.
// State machine per (symbol, market, rule_type, base_date):
// PENDING → COMPLETED, exactly once. Completed records are append-only.
type BacktestRecord struct {
	Symbol   string   `json:"symbol"`
	Market   Market   `json:"market"`
	RuleType RuleType `json:"rule_type"`

	BaseDate   time.Time `json:"base_date"`
	TargetDate time.Time `json:"target_date"` // base_date + horizon
	BaseClose  float64   `json:"base_close"`

	// Refreshed every batch run while pending
	LatestClose  float64   `json:"latest_close"`
	LatestUpdate time.Time `json:"latest_update"`
	ChangeRate   float64   `json:"change_rate"` // %

	Completed bool `json:"is_completed"`

	// Milestones: 종가가 처음 기준가 대비 +5% / +10%에 도달한 날 ("" = 미도달)
	Date5Pct  string `json:"date_5pct"`
	Date10Pct string `json:"date_10pct"`

	// Populated once completed
	FinalClose      float64 `json:"final_close"`
	FinalChangeRate float64 `json:"final_change_rate"`
}

// Key returns the natural key used for dedup across pending store and
// completed log
func (r *BacktestRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		r.Symbol, r.Market, r.RuleType, r.BaseDate.Format("2006-01-02"))
}

// ChangeRatePct computes the percent change of close against base_close
func ChangeRatePct(baseClose, close float64) float64 {
	if baseClose <= 0 {
		return 0
	}
	return (close - baseClose) / baseClose * 100
}
