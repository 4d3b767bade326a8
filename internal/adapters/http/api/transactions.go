package api

import (
	"encoding/json"
	"net/http"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// TransactionHandler lists and records wallet transactions.
type TransactionHandler struct {
	deps         TransactionDependencies
	defaultLimit int
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(deps TransactionDependencies, defaultLimit int) *TransactionHandler {
	return &TransactionHandler{deps: deps, defaultLimit: defaultLimit}
}

type ackResponse struct {
	Status string `json:"status"`
	types.RecordResult
}

// HandleList handles GET /api/transactions/{wallet}?limit=N.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_transactions"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	limit, err := limitParam(r, h.defaultLimit, maxTransactionLimit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	entries, err := h.deps.Transactions(r.Context(), wallet, limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRecord handles POST /api/transactions/{wallet}. It answers 202 for
// a newly recorded transaction and 200 for a duplicate.
func (h *TransactionHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_transaction"
	wallet, err := walletParam(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	var in types.TransactionInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTransactionBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.RecordTransaction(r.Context(), wallet, in)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", RecordResult: res})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RecordResult: res})
}
