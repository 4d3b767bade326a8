package api

import (
	"net/http"
)

// ReputationHandler serves stored records, factors and benefits.
type ReputationHandler struct {
	deps ReputationDependencies
}

// NewReputationHandler creates a new reputation handler.
func NewReputationHandler(deps ReputationDependencies) *ReputationHandler {
	return &ReputationHandler{deps: deps}
}

// HandleGetReputation handles GET /api/reputation/{wallet}.
func (h *ReputationHandler) HandleGetReputation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_reputation"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	rec, err := h.deps.Reputation(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleGetFactors handles GET /api/reputation/{wallet}/factors. Wallets
// never analyzed yield an empty list.
func (h *ReputationHandler) HandleGetFactors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_factors"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	factors, err := h.deps.Factors(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, factors)
}

// HandleGetBenefits handles GET /api/benefits/{wallet}.
func (h *ReputationHandler) HandleGetBenefits(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_benefits"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	summary, err := h.deps.Benefits(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
