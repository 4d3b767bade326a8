package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

const backend = "postgres"

// Store implements feed.Store using PostgreSQL.
type Store struct {
	pool *Pool
}

// NewStore creates a new Store.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Compile-time interface check.
var _ feed.Store = (*Store)(nil)

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
}

// AddTransaction inserts e. Returns feed.ErrDuplicate if tx_id exists.
func (s *Store) AddTransaction(ctx context.Context, e model.LedgerEntry) error {
	defer observe("add_transaction", time.Now())
	query := `
		INSERT INTO transactions (
			tx_id, wallet_address, type, amount, date, reputation_points, ai_analyzed, counterparty, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, query,
		e.TxID,
		e.Wallet,
		e.Type,
		e.Amount,
		e.Date.UTC(),
		e.ReputationPoints,
		e.AIAnalyzed,
		e.Counterparty,
		e.Note,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return feed.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Transactions returns up to limit entries of wallet, newest first.
func (s *Store) Transactions(ctx context.Context, wallet string, limit int) ([]model.LedgerEntry, error) {
	defer observe("transactions", time.Now())
	query := `
		SELECT tx_id, wallet_address, type, amount, date, COALESCE(reputation_points, 0), ai_analyzed, counterparty, note
		FROM transactions
		WHERE wallet_address = $1
		ORDER BY date DESC, id DESC
	`
	args := []any{wallet}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanLedger(rows)
}

// WalletTransactions returns the wallet's full history as engine input.
func (s *Store) WalletTransactions(ctx context.Context, wallet string) ([]model.Transaction, error) {
	entries, err := s.Transactions(ctx, wallet, 0)
	if err != nil {
		return nil, err
	}
	return model.Transactions(entries), nil
}

// SaveReputation upserts the wallet's record.
func (s *Store) SaveReputation(ctx context.Context, r feed.Record) error {
	defer observe("save_reputation", time.Now())
	query := `
		INSERT INTO reputation_scores (
			wallet_address, score, variant, consistency, longevity, diversity, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (wallet_address) DO UPDATE SET
			score = EXCLUDED.score,
			variant = EXCLUDED.variant,
			consistency = EXCLUDED.consistency,
			longevity = EXCLUDED.longevity,
			diversity = EXCLUDED.diversity,
			last_updated = EXCLUDED.last_updated
	`
	_, err := s.pool.Exec(ctx, query,
		r.Wallet, r.Score, r.Variant, r.Consistency, r.Longevity, r.Diversity, r.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert reputation: %w", err)
	}
	return nil
}

// Reputation returns feed.ErrNotFound for wallets never analyzed.
func (s *Store) Reputation(ctx context.Context, wallet string) (feed.Record, error) {
	query := `
		SELECT wallet_address, score, variant, consistency, longevity, diversity, last_updated
		FROM reputation_scores
		WHERE wallet_address = $1
	`
	var r feed.Record
	err := s.pool.QueryRow(ctx, query, wallet).Scan(
		&r.Wallet, &r.Score, &r.Variant, &r.Consistency, &r.Longevity, &r.Diversity, &r.LastUpdated,
	)
	if err != nil {
		if isNotFoundError(err) {
			return feed.Record{}, feed.ErrNotFound
		}
		return feed.Record{}, fmt.Errorf("get reputation: %w", err)
	}
	r.LastUpdated = r.LastUpdated.UTC()
	return r, nil
}

// SaveFactors replaces the wallet's factor set in one transaction.
func (s *Store) SaveFactors(ctx context.Context, wallet string, factors []feed.FactorRecord) error {
	defer observe("save_factors", time.Now())
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM reputation_factors WHERE wallet_address = $1`, wallet); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, f := range factors {
			batch.Queue(`
				INSERT INTO reputation_factors (wallet_address, factor_name, score, max_score)
				VALUES ($1, $2, $3, $4)
			`, wallet, f.Name, f.Score, f.MaxScore)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("replace factors: %w", err)
	}
	return nil
}

// Factors returns the wallet's factors in insertion order.
func (s *Store) Factors(ctx context.Context, wallet string) ([]feed.FactorRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT wallet_address, factor_name, score, max_score
		FROM reputation_factors
		WHERE wallet_address = $1
		ORDER BY id ASC
	`, wallet)
	if err != nil {
		return nil, fmt.Errorf("query factors: %w", err)
	}
	defer rows.Close()

	out := []feed.FactorRecord{}
	for rows.Next() {
		var f feed.FactorRecord
		if err := rows.Scan(&f.Wallet, &f.Name, &f.Score, &f.MaxScore); err != nil {
			return nil, fmt.Errorf("scan factor: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Wallets lists wallets holding a reputation record, sorted.
func (s *Store) Wallets(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT wallet_address FROM reputation_scores ORDER BY wallet_address`)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan wallets: %w", err)
	}
	return out, nil
}

// SaveNFT inserts n. Returns feed.ErrDuplicate if asset_id exists.
func (s *Store) SaveNFT(ctx context.Context, n model.NFT) error {
	defer observe("save_nft", time.Now())
	_, err := s.pool.Exec(ctx, `
		INSERT INTO soulbound_nfts (
			wallet_address, asset_id, name, description, image_url, level, issue_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.Wallet, n.AssetID, n.Name, n.Description, n.ImageURL, n.Level, n.IssueDate.UTC())
	if err != nil {
		if isDuplicateKeyError(err) {
			return feed.ErrDuplicate
		}
		return fmt.Errorf("insert nft: %w", err)
	}
	return nil
}

// NFTs returns the wallet's NFTs, oldest issue first.
func (s *Store) NFTs(ctx context.Context, wallet string) ([]model.NFT, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT wallet_address, asset_id, name, description, image_url, level, issue_date
		FROM soulbound_nfts
		WHERE wallet_address = $1
		ORDER BY issue_date ASC, id ASC
	`, wallet)
	if err != nil {
		return nil, fmt.Errorf("query nfts: %w", err)
	}
	defer rows.Close()

	out := []model.NFT{}
	for rows.Next() {
		var n model.NFT
		if err := rows.Scan(&n.Wallet, &n.AssetID, &n.Name, &n.Description, &n.ImageURL, &n.Level, &n.IssueDate); err != nil {
			return nil, fmt.Errorf("scan nft: %w", err)
		}
		n.IssueDate = n.IssueDate.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanLedger(rows pgx.Rows) ([]model.LedgerEntry, error) {
	out := []model.LedgerEntry{}
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(
			&e.TxID, &e.Wallet, &e.Type, &e.Amount, &e.Date,
			&e.ReputationPoints, &e.AIAnalyzed, &e.Counterparty, &e.Note,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		e.Date = e.Date.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
