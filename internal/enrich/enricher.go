package enrich

import (
	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// 메타데이터 결합 기본값
const (
	defaultName      = "N/A"
	defaultSector    = "N/A"
	defaultTrend     = "N/A"
	defaultCapStatus = "기존"
)

// Enricher joins the metadata snapshot onto computed indicator rows.
// Pure merge: no I/O, no recomputation of indicator fields.
// ⭐ SSOT: 지표 행 메타데이터 결합은 여기서만
type Enricher struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Enricher {
	return &Enricher{logger: log}
}

// Apply fills row's metadata fields from the snapshot. Symbols missing
// from the snapshot get neutral defaults so every screener comparison on
// them evaluates false.
func (e *Enricher) Apply(row *contracts.IndicatorRow, snapshot *contracts.MetaSnapshot) {
	meta, ok := snapshot.Get(row.Market, row.Symbol)
	if !ok {
		e.logger.WithFields(map[string]interface{}{
			"symbol": row.Symbol,
			"market": row.Market,
		}).Debug("메타데이터 없음, 기본값 적용")

		row.Name = fallback(row.Name, defaultName)
		row.Sector = defaultSector
		row.SectorTrend = defaultTrend
		row.CapStatus = defaultCapStatus
		row.ForeignNetBuy = padFlow(nil)
		row.InstNetBuy = padFlow(nil)
		return
	}

	if meta.Name != "" {
		row.Name = meta.Name
	} else if row.Name == "" {
		row.Name = defaultName
	}
	row.MarketCap = meta.MarketCap
	row.CapStatus = fallback(meta.CapStatus, defaultCapStatus)
	row.PER = meta.PER
	row.EPS = meta.EPS
	row.Sector = fallback(meta.Sector, defaultSector)
	row.SectorTrend = fallback(meta.SectorTrend, defaultTrend)
	row.ForeignNetBuy = padFlow(meta.ForeignNetBuy)
	row.InstNetBuy = padFlow(meta.InstNetBuy)

	// 회전율 = 당일 거래대금 / 시가총액
	if meta.MarketCap > 0 {
		row.Turnover = row.TodayTradingValue / meta.MarketCap
	}
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// padFlow normalizes a net-buy series to the fixed window, most recent
// first, zero padded at the tail.
func padFlow(flow []float64) []float64 {
	out := make([]float64, contracts.FlowHistoryLen)
	copy(out, flow)
	return out
}
