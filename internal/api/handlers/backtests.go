package handlers

import (
	"net/http"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// BacktestHandler serves the pending table and the completed log.
type BacktestHandler struct {
	store  contracts.BacktestStore
	logger *logger.Logger
}

func NewBacktestHandler(store contracts.BacktestStore, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{store: store, logger: log}
}

// Pending returns records still awaiting their target date.
// GET /api/backtest/pending
func (h *BacktestHandler) Pending(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListPending(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("pending 백테스트 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to list pending backtests")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// Completed returns the append-only completed log.
// GET /api/backtest/completed
func (h *BacktestHandler) Completed(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListCompleted(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("완료 백테스트 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to list completed backtests")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}
