// Package types contains the request and response shapes shared by the HTTP
// API, its clients and the service.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/benefits"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
)

// Field limits for TransactionInput.
const (
	MaxTxIDLength  = 128
	MaxTypeLength  = 64
	MaxNoteLength  = 512
	MaxAmountChars = 64
)

// Field limits for NFTInput.
const (
	MaxNFTNameLength        = 128
	MaxNFTDescriptionLength = 1024
	MaxImageURLLength       = 2048
)

// ErrInvalidInput reports a request body that fails validation.
var ErrInvalidInput = errors.New("invalid input")

// Entry is a leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Wallet string `json:"walletAddress"`
	Score  int    `json:"score"`
}

// TransactionInput is the body of POST /api/transactions/{wallet}.
// Empty TxID gets a generated one; a missing Date means now.
type TransactionInput struct {
	TxID         string     `json:"txId,omitempty" yaml:"txId,omitempty"`
	Type         string     `json:"type" yaml:"type"`
	Amount       string     `json:"amount" yaml:"amount"`
	Date         *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Counterparty string     `json:"counterparty,omitempty" yaml:"counterparty,omitempty"`
	Note         string     `json:"note,omitempty" yaml:"note,omitempty"`
	AIAnalyzed   bool       `json:"aiAnalyzed,omitempty" yaml:"aiAnalyzed,omitempty"`
}

// Validate checks field presence, lengths and the amount format.
func (in TransactionInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Type) == "":
		return fmt.Errorf("%w: type is required", ErrInvalidInput)
	case len(in.Type) > MaxTypeLength:
		return fmt.Errorf("%w: type longer than %d", ErrInvalidInput, MaxTypeLength)
	case len(in.TxID) > MaxTxIDLength:
		return fmt.Errorf("%w: txId longer than %d", ErrInvalidInput, MaxTxIDLength)
	case len(in.Note) > MaxNoteLength:
		return fmt.Errorf("%w: note longer than %d", ErrInvalidInput, MaxNoteLength)
	case strings.TrimSpace(in.Amount) == "":
		return fmt.Errorf("%w: amount is required", ErrInvalidInput)
	case len(in.Amount) > MaxAmountChars:
		return fmt.Errorf("%w: amount longer than %d", ErrInvalidInput, MaxAmountChars)
	}
	if _, err := model.ParseAmount(in.Amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// Transaction converts the input into an engine transaction for wallet.
// Unparseable amounts count as zero, as in model.LedgerEntry.
func (in TransactionInput) Transaction(wallet string, now time.Time) model.Transaction {
	return in.LedgerEntry(wallet, now).Transaction()
}

// LedgerEntry builds the stored form of the input for wallet.
func (in TransactionInput) LedgerEntry(wallet string, now time.Time) model.LedgerEntry {
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	return model.LedgerEntry{
		TxID:         in.TxID,
		Wallet:       wallet,
		Type:         strings.TrimSpace(in.Type),
		Amount:       strings.TrimSpace(in.Amount),
		Date:         date.UTC(),
		AIAnalyzed:   in.AIAnalyzed,
		Counterparty: in.Counterparty,
		Note:         in.Note,
	}
}

// RecordResult is the outcome of recording a transaction.
type RecordResult struct {
	TxID             string `json:"txId"`
	Duplicate        bool   `json:"duplicate"`
	Queued           bool   `json:"queued"`
	ReputationPoints int    `json:"reputationPoints"`
}

// AnalysisResponse is returned by the analyze endpoints. Score is canonical.
type AnalysisResponse struct {
	Score    int               `json:"score"`
	Analysis reputation.Result `json:"analysis"`
}

// RankResponse is returned by GET /rank/{wallet}.
type RankResponse struct {
	Entry
	Total int `json:"total"`
}

// LeaderboardResponse is returned by GET /leaderboard.
type LeaderboardResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NFTInput is the body of POST /api/nfts/{wallet}.
type NFTInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl"`
	Level       int    `json:"level"`
}

// Validate checks required fields, lengths and the level range.
func (in NFTInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case len(in.Name) > MaxNFTNameLength:
		return fmt.Errorf("%w: name longer than %d", ErrInvalidInput, MaxNFTNameLength)
	case len(in.Description) > MaxNFTDescriptionLength:
		return fmt.Errorf("%w: description longer than %d", ErrInvalidInput, MaxNFTDescriptionLength)
	case strings.TrimSpace(in.ImageURL) == "":
		return fmt.Errorf("%w: imageUrl is required", ErrInvalidInput)
	case len(in.ImageURL) > MaxImageURLLength:
		return fmt.Errorf("%w: imageUrl longer than %d", ErrInvalidInput, MaxImageURLLength)
	case in.Level == 0:
		return fmt.Errorf("%w: level is required", ErrInvalidInput)
	case in.Level < 0 || in.Level > benefits.MaxNFTLevel:
		return fmt.Errorf("%w: level must be between 1 and %d", ErrInvalidInput, benefits.MaxNFTLevel)
	}
	return nil
}

// NFT builds the stored NFT for wallet.
func (in NFTInput) NFT(wallet string, assetID int64, issued time.Time) model.NFT {
	return model.NFT{
		Wallet:      wallet,
		AssetID:     assetID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Level:       in.Level,
		IssueDate:   issued.UTC(),
	}
}

// MintResult is returned by POST /api/nfts/{wallet}.
type MintResult struct {
	Message  string            `json:"message"`
	AssetID  int64             `json:"assetId"`
	NFT      model.NFT         `json:"nft"`
	Metadata model.NFTMetadata `json:"metadata"`
}
