package api

import (
	"net/http"
)

// AnalyzeHandler runs on-demand analyses.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandleAnalyze handles POST /api/analyze/{wallet}.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	resp, err := h.deps.Analyze(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAnalyzeAdvanced handles POST /api/analyze-advanced/{wallet}.
func (h *AnalyzeHandler) HandleAnalyzeAdvanced(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_advanced"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	resp, err := h.deps.AnalyzeAdvanced(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
