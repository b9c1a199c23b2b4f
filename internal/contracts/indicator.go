package contracts

import "time"

// Array length constants for the recent-history snapshots
const (
	RSIHistoryLen         = 3
	MACDHistoryLen        = 3
	OBVHistoryLen         = 3
	OBVSignal9HistoryLen  = 3
	OBVSignal20HistoryLen = 4
	CloseHistoryLen       = 3
	MAHistoryLen          = 3
	FlowHistoryLen        = 5
	CandleWindow          = 5
)

// IndicatorRow is the computed + enriched snapshot for one symbol,
// wholesale-replaced every batch run.
//
// Ordering conventions (fixed, do not mix):
//   - RSI3, MACD3, MACDSignal3: oldest→newest ([0]=2일 전, [2]=최신)
//   - OBV3, OBVSignal9, OBVSignal20, Close3, MA20, MA50, MA200,
//     ForeignNetBuy, InstNetBuy: most-recent-first ([0]=최신)
//
// Missing history is zero-padded to the fixed length, never truncated:
// downstream predicates index by fixed position.
type IndicatorRow struct {
	Symbol string `json:"symbol"`
	Market Market `json:"market"`
	Name   string `json:"name"`

	RSI3        []float64 `json:"rsi_3"`
	MACD3       []float64 `json:"macd_3"`
	MACDSignal3 []float64 `json:"macd_signal_3"`
	OBV3        []float64 `json:"obv_3"`
	OBVSignal9  []float64 `json:"obv_signal9_3"`
	OBVSignal20 []float64 `json:"obv_signal20_4"`
	Close3      []float64 `json:"close_3"`
	MA20        []float64 `json:"ma20_3"`
	MA50        []float64 `json:"ma50_3"`
	MA200       []float64 `json:"ma200_3"`

	MarketCap          float64 `json:"market_cap"`
	AvgTradingValue20D float64 `json:"avg_trading_value_20d"`
	TodayTradingValue  float64 `json:"today_trading_value"`
	Turnover           float64 `json:"turnover"`
	PER                float64 `json:"per"`
	EPS                float64 `json:"eps"`
	CapStatus          string  `json:"cap_status"`

	UpperCloses int `json:"upper_closes"`
	LowerCloses int `json:"lower_closes"`

	Sector      string `json:"sector"`
	SectorTrend string `json:"sector_trend"`

	Break20High int `json:"break_20high"`

	// 외국인/기관 순매수 (최근 5일, 최신 우선, 0 패딩)
	ForeignNetBuy []float64 `json:"foreign_net_buy"`
	InstNetBuy    []float64 `json:"institutional_net_buy"`

	UpdatedAt time.Time `json:"updated_at"`
}

// at returns slice[i] or 0 when the index is out of range.
// 값이 없으면 수치 비교는 false로 떨어져야 하므로 0 반환 (절대 panic 금지)
func at(vals []float64, i int) float64 {
	if i < 0 || i >= len(vals) {
		return 0
	}
	return vals[i]
}

// RSI accessors (oldest→newest array)

func (r *IndicatorRow) RSILatest() float64 { return at(r.RSI3, RSIHistoryLen-1) }
func (r *IndicatorRow) RSI1Ago() float64   { return at(r.RSI3, RSIHistoryLen-2) }
func (r *IndicatorRow) RSI2Ago() float64   { return at(r.RSI3, RSIHistoryLen-3) }

// OBV accessors (most-recent-first arrays)

func (r *IndicatorRow) OBVLatest() float64         { return at(r.OBV3, 0) }
func (r *IndicatorRow) OBV1Ago() float64           { return at(r.OBV3, 1) }
func (r *IndicatorRow) OBVSignal9Latest() float64  { return at(r.OBVSignal9, 0) }
func (r *IndicatorRow) OBVSignal91Ago() float64    { return at(r.OBVSignal9, 1) }
func (r *IndicatorRow) OBVSignal20Latest() float64 { return at(r.OBVSignal20, 0) }
func (r *IndicatorRow) OBVSignal203Ago() float64   { return at(r.OBVSignal20, 3) }

// Close / MA accessors (most-recent-first arrays)

func (r *IndicatorRow) CloseLatest() float64 { return at(r.Close3, 0) }
func (r *IndicatorRow) Close1Ago() float64   { return at(r.Close3, 1) }
func (r *IndicatorRow) MA20Latest() float64  { return at(r.MA20, 0) }
func (r *IndicatorRow) MA201Ago() float64    { return at(r.MA20, 1) }
func (r *IndicatorRow) MA50Latest() float64  { return at(r.MA50, 0) }
func (r *IndicatorRow) MA200Latest() float64 { return at(r.MA200, 0) }

// FlowSum sums the n most recent net-buy values of the given flow array
func FlowSum(flow []float64, n int) float64 {
	var sum float64
	for i := 0; i < n && i < len(flow); i++ {
		sum += flow[i]
	}
	return sum
}
