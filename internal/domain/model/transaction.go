// Package model contains domain models passed between layers.
package model

import "time"

// Transaction is a single wallet transaction as consumed by the reputation engine.
type Transaction struct {
	ID        string    // unique transaction id
	Type      string    // free-text label, e.g. "Liquidity Provisioning"
	Sender    string    // sending wallet
	Recipient string    // receiving wallet, empty when unknown
	Amount    float64   // signed magnitude; sign indicates direction
	Note      string    // optional annotation
	Timestamp time.Time // moment of occurrence
}

// LedgerEntry is a stored activity record for a wallet.
// Amount is kept as display text, e.g. "+285 ALGO".
type LedgerEntry struct {
	TxID             string    `json:"txId"`
	Wallet           string    `json:"walletAddress"`
	Type             string    `json:"type"`
	Amount           string    `json:"amount"`
	Date             time.Time `json:"date"`
	ReputationPoints int       `json:"reputationPoints"`
	AIAnalyzed       bool      `json:"aiAnalyzed"`
	Counterparty     string    `json:"counterparty,omitempty"`
	Note             string    `json:"note,omitempty"`
}

// Transaction converts a ledger entry into an engine transaction.
// The wallet is the sender and the counterparty, if any, the recipient.
// Unparseable amounts count as zero.
func (e LedgerEntry) Transaction() Transaction {
	amount, err := ParseAmount(e.Amount)
	if err != nil {
		amount = 0
	}
	return Transaction{
		ID:        e.TxID,
		Type:      e.Type,
		Sender:    e.Wallet,
		Recipient: e.Counterparty,
		Amount:    amount,
		Note:      e.Note,
		Timestamp: e.Date,
	}
}

// Transactions converts a slice of ledger entries.
func Transactions(entries []LedgerEntry) []Transaction {
	out := make([]Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.Transaction()
	}
	return out
}
