// Package feed stores wallet activity and reputation records and serves
// wallet transaction histories to the reputation engine.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// Sentinel kinds for feed errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Record is the persisted reputation summary of a wallet. Score is on the
// canonical [0,1000] scale.
type Record struct {
	Wallet      string    `json:"walletAddress"`
	Score       int       `json:"score"`
	Variant     string    `json:"variant"`
	Consistency int       `json:"consistency"`
	Longevity   int       `json:"longevity"`
	Diversity   int       `json:"diversity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// FactorRecord is one persisted factor score of a wallet.
type FactorRecord struct {
	Wallet   string `json:"walletAddress"`
	Name     string `json:"factorName"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
}

// Store is the persistence contract shared by the memory and postgres
// backends.
type Store interface {
	// AddTransaction stores e. A repeated TxID yields ErrDuplicate.
	AddTransaction(ctx context.Context, e model.LedgerEntry) error
	// Transactions returns up to limit entries of wallet, newest first.
	// A limit <= 0 returns all of them.
	Transactions(ctx context.Context, wallet string, limit int) ([]model.LedgerEntry, error)
	// WalletTransactions returns the wallet's full history as engine input.
	// Unknown wallets yield an empty slice.
	WalletTransactions(ctx context.Context, wallet string) ([]model.Transaction, error)

	SaveReputation(ctx context.Context, r Record) error
	// Reputation returns ErrNotFound for wallets never analyzed.
	Reputation(ctx context.Context, wallet string) (Record, error)
	// SaveFactors replaces the wallet's factor set.
	SaveFactors(ctx context.Context, wallet string, factors []FactorRecord) error
	Factors(ctx context.Context, wallet string) ([]FactorRecord, error)
	// Wallets lists wallets holding a reputation record, sorted.
	Wallets(ctx context.Context) ([]string, error)

	// SaveNFT stores n. A repeated AssetID yields ErrDuplicate.
	SaveNFT(ctx context.Context, n model.NFT) error
	// NFTs returns the wallet's NFTs, oldest issue first.
	NFTs(ctx context.Context, wallet string) ([]model.NFT, error)
}
