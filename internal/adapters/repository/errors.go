package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("wallet not ranked")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
