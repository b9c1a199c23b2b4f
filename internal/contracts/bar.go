package contracts

import (
	"fmt"
	"time"
)

// DailyBar is one OHLCV observation for a symbol on a trading date.
// Historical bars are immutable; the series is read-only input to the
// indicator calculator.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// TradingValue returns the traded value of the bar (종가 × 거래량)
func (b DailyBar) TradingValue() float64 {
	return b.Close * b.Volume
}

// ValidateSeries checks the bar-series invariant: dates strictly increasing,
// no duplicates. The series must be ordered oldest first.
func ValidateSeries(bars []DailyBar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("bar series not strictly increasing at index %d (%s >= %s)",
				i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}
