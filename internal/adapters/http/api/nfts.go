package api

import (
	"encoding/json"
	"net/http"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

const maxNFTBodyBytes int64 = 8 << 10

// NFTHandler lists and issues soulbound NFTs.
type NFTHandler struct {
	deps NFTDependencies
}

// NewNFTHandler creates a new NFT handler.
func NewNFTHandler(deps NFTDependencies) *NFTHandler {
	return &NFTHandler{deps: deps}
}

// HandleList handles GET /api/nfts/{wallet}.
func (h *NFTHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_nfts"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	nfts, err := h.deps.NFTs(r.Context(), wallet)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, nfts)
}

// HandleMint handles POST /api/nfts/{wallet} and answers 201 with the
// issued NFT and its metadata.
func (h *NFTHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	const op = "api.mint_nft"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	var in types.NFTInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNFTBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.MintNFT(r.Context(), wallet, in)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
