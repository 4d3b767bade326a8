package api

import (
	"context"
	"net/http"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// LeaderboardResponse is the body of GET /leaderboard.
type LeaderboardResponse = types.LeaderboardResponse

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, wallet string) (types.RankResponse, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{wallet} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	entry, err := h.deps.Rank(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
