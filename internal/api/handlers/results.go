package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/pkg/logger"
)

// ResultHandler serves per-rule screener result sets.
type ResultHandler struct {
	results contracts.ResultStore
	logger  *logger.Logger
}

func NewResultHandler(results contracts.ResultStore, log *logger.Logger) *ResultHandler {
	return &ResultHandler{results: results, logger: log}
}

// List returns one rule bundle's candidates in screener order.
// GET /api/results/{rule}
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	rule := contracts.RuleType(mux.Vars(r)["rule"])
	if !rule.Valid() {
		respondError(w, http.StatusBadRequest, "unknown rule type")
		return
	}

	candidates, err := h.results.ListResults(r.Context(), rule)
	if err != nil {
		h.logger.WithError(err).WithField("rule", rule).Error("스크리닝 결과 조회 실패")
		respondError(w, http.StatusInternalServerError, "failed to list results")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rule":       rule,
		"count":      len(candidates),
		"candidates": candidates,
	})
}
