package contracts

// SymbolMeta carries the external per-symbol facts joined onto computed
// indicator rows. Supplied by the data-acquisition collaborator and read
// here as an immutable snapshot.
type SymbolMeta struct {
	Name        string  `json:"name"`
	MarketCap   float64 `json:"cap"`
	CapStatus   string  `json:"cap_status"` // 시총 스냅샷 날짜 또는 "기존"
	PER         float64 `json:"per"`
	EPS         float64 `json:"eps"`
	Close       float64 `json:"close"`
	Sector      string  `json:"sector"`
	SectorTrend string  `json:"sector_trend"` // 예: "상승(+4.01%) TIGER 200 금융"

	// 최근 5일 순매수 (최신 우선)
	ForeignNetBuy []float64 `json:"foreign_net_buy"`
	InstNetBuy    []float64 `json:"institutional_net_buy"`
}

// MetaSnapshot is a read-only point-in-time view of the metadata store,
// keyed by (market, symbol). Passed into pure compute/evaluate calls instead
// of a process-wide cache.
type MetaSnapshot struct {
	ByKey map[MetaKey]SymbolMeta
}

// MetaKey is the (market, symbol) lookup key
type MetaKey struct {
	Market Market
	Symbol string
}

// Get looks up metadata for a symbol; the second return reports presence
func (s *MetaSnapshot) Get(market Market, symbol string) (SymbolMeta, bool) {
	if s == nil || s.ByKey == nil {
		return SymbolMeta{}, false
	}
	meta, ok := s.ByKey[MetaKey{Market: market, Symbol: symbol}]
	return meta, ok
}

// Symbols returns all symbols present for a market
func (s *MetaSnapshot) Symbols(market Market) []string {
	if s == nil {
		return nil
	}
	symbols := make([]string, 0)
	for key := range s.ByKey {
		if key.Market == market {
			symbols = append(symbols, key.Symbol)
		}
	}
	return symbols
}
