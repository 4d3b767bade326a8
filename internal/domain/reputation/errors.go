package reputation

import "errors"

// Sentinel kinds for reputation errors.
var (
	// ErrAnalysisFailed wraps any failure to obtain a wallet's transactions.
	ErrAnalysisFailed = errors.New("reputation analysis failed")
	// ErrInvalidProfile reports a profile that cannot drive the engine.
	ErrInvalidProfile = errors.New("invalid reputation profile")
	// ErrUnknownVariant reports an unrecognised pipeline variant name.
	ErrUnknownVariant = errors.New("unknown analysis variant")
	// ErrUnknownRiskAveraging reports an unrecognised risk averaging mode.
	ErrUnknownRiskAveraging = errors.New("unknown risk averaging mode")
)
