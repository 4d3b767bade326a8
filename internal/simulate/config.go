// Package simulate drives a running reputation service with synthetic
// wallets. Each wallet follows a persona whose history should land its
// advanced score inside a known band.
package simulate

import (
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL string        // Base URL of the service
	Wallets int           // Wallets generated per persona
	TopN    int           // Leaderboard entries fetched at the end
	Workers int           // Concurrent HTTP workers
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Generator seed; 0 picks a random one
	Output  string        // Optional JSON file receiving the generated wallets
	Verbose bool
}

// Wallet is one generated wallet and its history.
type Wallet struct {
	Address      string                   `json:"walletAddress"`
	Persona      string                   `json:"persona"`
	Transactions []types.TransactionInput `json:"transactions"`
}

// Outcome is the analysis result of one wallet checked against its band.
type Outcome struct {
	Wallet  string `json:"walletAddress"`
	Persona string `json:"persona"`
	Score   int    `json:"score"`
	Band    Band   `json:"band"`
	InBand  bool   `json:"inBand"`
}

// Report summarises a run.
type Report struct {
	WalletsGenerated      int           `json:"walletsGenerated"`
	TransactionsSubmitted int           `json:"transactionsSubmitted"`
	TransactionsAccepted  int           `json:"transactionsAccepted"`
	TransactionsDuplicate int           `json:"transactionsDuplicate"`
	TransactionsFailed    int           `json:"transactionsFailed"`
	Outcomes              []Outcome     `json:"outcomes"`
	BandMisses            int           `json:"bandMisses"`
	Leaderboard           []types.Entry `json:"leaderboard"`
	LeaderboardTotal      int           `json:"leaderboardTotal"`
	Duration              time.Duration `json:"duration"`
}
