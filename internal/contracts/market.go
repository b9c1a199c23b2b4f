package contracts

import "strings"

// Market identifies the exchange universe a symbol belongs to
type Market string

const (
	MarketKR Market = "KR"
	MarketUS Market = "US"
)

// Valid reports whether the market is one of the supported universes
func (m Market) Valid() bool {
	return m == MarketKR || m == MarketUS
}

// Symbol identifies one tradable instrument
// (code, market) is the unique key across the universe
type Symbol struct {
	Code   string `json:"code"`
	Market Market `json:"market"`
	Name   string `json:"name"`
}

// NormalizeCode canonicalizes a raw ticker for a market.
// KR 종목코드는 6자리 zero-padding (예: "5930" → "005930")
func NormalizeCode(market Market, code string) string {
	code = strings.TrimSpace(code)
	if market == MarketKR {
		for len(code) < 6 {
			code = "0" + code
		}
	}
	return code
}
