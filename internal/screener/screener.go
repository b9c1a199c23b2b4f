package screener

import (
	"context"
	"sort"
	"time"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/internal/rules"
	"github.com/wonny/hermes/pkg/logger"
)

// 유동성 하한 (시장별 절대 기준, AND 결합)
// ⭐ SSOT: 시총 하한은 여기서만
const (
	minMarketCapUS = 2e9  // 20억 달러
	minMarketCapKR = 2e11 // 2000억 원
)

// Options selects the screening universe and caps the result size.
type Options struct {
	Markets []contracts.Market
	TopN    int       // 0이면 제한 없음
	AsOf    time.Time // 후보 기준일
}

// Screener filters the materialized indicator rows through a rule bundle
// and ranks the survivors. Read-only over the store.
type Screener struct {
	rows   contracts.IndicatorStore
	logger *logger.Logger
}

func New(rows contracts.IndicatorStore, log *logger.Logger) *Screener {
	return &Screener{rows: rows, logger: log}
}

// Screen runs one bundle over the selected markets and returns scored,
// ordered candidates.
func (s *Screener) Screen(ctx context.Context, bundle rules.Bundle, opts Options) ([]contracts.Candidate, error) {
	universe, err := s.rows.List(ctx, opts.Markets)
	if err != nil {
		return nil, err
	}

	candidates := Evaluate(universe, bundle, opts)

	s.logger.WithFields(map[string]interface{}{
		"bundle":     bundle.Name,
		"universe":   len(universe),
		"candidates": len(candidates),
	}).Info("스크리닝 완료")

	return candidates, nil
}

// Evaluate applies the liquidity floor, the bundle's entry condition, and
// scoring to an in-memory universe. Split out from Screen so the batch
// pipeline can reuse freshly computed rows without a store round trip.
func Evaluate(universe []contracts.IndicatorRow, bundle rules.Bundle, opts Options) []contracts.Candidate {
	candidates := make([]contracts.Candidate, 0, 16)
	for i := range universe {
		row := &universe[i]
		if !marketSelected(row.Market, opts.Markets) {
			continue
		}
		if !PassesLiquidityFloor(row) {
			continue
		}
		if !bundle.Matches(row) {
			continue
		}

		score := bundle.Score(row)
		candidates = append(candidates, contracts.Candidate{
			Row:       *row,
			RuleType:  bundle.Rule,
			BaseDate:  opts.AsOf,
			BaseClose: row.CloseLatest(),
			Score:     score.Points,
			Tier:      score.Tier,
		})
	}

	orderCandidates(candidates, bundle.Ordering)

	if opts.TopN > 0 && len(candidates) > opts.TopN {
		candidates = candidates[:opts.TopN]
	}
	return candidates
}

// PassesLiquidityFloor enforces the per-market market-cap minimum.
// 통화 환산 없이 시장별 절대값으로 비교한다.
func PassesLiquidityFloor(r *contracts.IndicatorRow) bool {
	switch r.Market {
	case contracts.MarketUS:
		return r.MarketCap >= minMarketCapUS
	case contracts.MarketKR:
		return r.MarketCap >= minMarketCapKR
	default:
		return false
	}
}

func marketSelected(m contracts.Market, selected []contracts.Market) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == m {
			return true
		}
	}
	return false
}

// orderCandidates ranks in place. Stable so equal keys keep store order.
func orderCandidates(cands []contracts.Candidate, ordering rules.Ordering) {
	switch ordering {
	case rules.OrderByRSIAsc:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].Row.RSILatest() < cands[j].Row.RSILatest()
		})
	default:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].Row.MarketCap > cands[j].Row.MarketCap
		})
	}
}
