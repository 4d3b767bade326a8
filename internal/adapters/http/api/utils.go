package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/repository"
	service "github.com/Danish0703/algorand-reputation-system/internal/app"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// MaxWalletLength bounds the {wallet} path value.
const MaxWalletLength = 128

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and domain errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrLevelLocked):
		writeError(w, http.StatusForbidden, "level_locked", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, reputation.ErrAnalysisFailed):
		writeError(w, http.StatusInternalServerError, "analysis_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}

// walletParam returns the validated {wallet} path value.
func walletParam(r *http.Request) (string, error) {
	wallet := strings.TrimSpace(r.PathValue("wallet"))
	switch {
	case wallet == "":
		return "", fmt.Errorf("%w: missing wallet address", ErrBadRequest)
	case len(wallet) > MaxWalletLength:
		return "", fmt.Errorf("%w: wallet address longer than %d", ErrBadRequest, MaxWalletLength)
	case strings.Contains(wallet, "/"):
		return "", fmt.Errorf("%w: invalid wallet address", ErrBadRequest)
	}
	return wallet, nil
}

// limitParam parses ?limit=N. A missing value yields def; values outside
// [1,maxLimit] are rejected. maxLimit <= 0 disables the upper bound.
func limitParam(r *http.Request, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
	}
	if maxLimit > 0 && n > maxLimit {
		return 0, fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, maxLimit)
	}
	return n, nil
}
