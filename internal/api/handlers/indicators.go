package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// IndicatorHandler serves the materialized indicator table.
// 읽기 전용 — 쓰기는 배치 파이프라인만 한다.
type IndicatorHandler struct {
	rows   contracts.IndicatorStore
	marker contracts.RefreshMarker
	logger *logger.Logger
}

func NewIndicatorHandler(rows contracts.IndicatorStore, marker contracts.RefreshMarker, log *logger.Logger) *IndicatorHandler {
	return &IndicatorHandler{rows: rows, marker: marker, logger: log}
}

// List returns all rows, optionally filtered by market.
// GET /api/indicators?market=KR|US
func (h *IndicatorHandler) List(w http.ResponseWriter, r *http.Request) {
	var markets []contracts.Market
	if m := contracts.Market(r.URL.Query().Get("market")); m != "" {
		if !m.Valid() {
			respondError(w, http.StatusBadRequest, "unknown market")
			return
		}
		markets = append(markets, m)
	}

	rows, err := h.rows.List(r.Context(), markets)
	if err != nil {
		h.logger.WithError(err).Error("지표 행 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to list indicator rows")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rows),
		"rows":  rows,
	})
}

// Get returns one symbol's row.
// GET /api/indicators/{market}/{symbol}
func (h *IndicatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	market := contracts.Market(vars["market"])
	if !market.Valid() {
		respondError(w, http.StatusBadRequest, "unknown market")
		return
	}
	symbol := contracts.NormalizeCode(market, vars["symbol"])

	row, err := h.rows.Get(r.Context(), market, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrNoData) {
			respondError(w, http.StatusNotFound, "symbol not found")
			return
		}
		h.logger.WithError(err).Error("지표 행 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to get indicator row")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

// LastRefresh returns when the last batch finished.
// GET /api/refresh
func (h *IndicatorHandler) LastRefresh(w http.ResponseWriter, r *http.Request) {
	at, ok, err := h.marker.LastRefresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("갱신 시각 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to read refresh marker")
		return
	}

	payload := map[string]interface{}{"refreshed": ok}
	if ok {
		payload["refreshed_at"] = at.Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, payload)
}
