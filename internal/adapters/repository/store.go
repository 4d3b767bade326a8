// Package repository holds the in-memory leaderboard of canonical
// reputation scores.
package repository

import "context"

// Entry is one leaderboard row.
type Entry struct {
	Rank   int
	Wallet string
	Score  int
}

// Leaderboard ranks wallets by score descending, wallet ascending.
type Leaderboard interface {
	// Upsert sets wallet's score, replacing any previous one.
	// Returns true if the stored score changed.
	Upsert(ctx context.Context, wallet string, score int) (bool, error)

	// Rank returns the wallet's competition rank and score.
	// Returns ErrNotFound if the wallet is unknown.
	Rank(ctx context.Context, wallet string) (Entry, error)

	// TopN returns up to n entries in rank order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked wallets.
	Count(ctx context.Context) int
}
