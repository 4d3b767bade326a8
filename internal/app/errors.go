package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("re-analysis queue is full")
	ErrLevelLocked  = errors.New("nft level not unlocked")
)
