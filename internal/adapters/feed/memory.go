package feed

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

const memoryBackend = "memory"

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	txIDs   map[string]struct{}
	ledger  map[string][]model.LedgerEntry
	records map[string]Record
	factors map[string][]FactorRecord
	assets  map[int64]struct{}
	nfts    map[string][]model.NFT
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txIDs:   make(map[string]struct{}),
		ledger:  make(map[string][]model.LedgerEntry),
		records: make(map[string]Record),
		factors: make(map[string][]FactorRecord),
		assets:  make(map[int64]struct{}),
		nfts:    make(map[string][]model.NFT),
	}
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(memoryBackend, op, float64(time.Since(start).Microseconds())/1000)
}

func (s *MemoryStore) AddTransaction(_ context.Context, e model.LedgerEntry) error {
	defer observe("add_transaction", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txIDs[e.TxID]; ok {
		return ErrDuplicate
	}
	s.txIDs[e.TxID] = struct{}{}
	s.ledger[e.Wallet] = append(s.ledger[e.Wallet], e)
	return nil
}

func (s *MemoryStore) Transactions(_ context.Context, wallet string, limit int) ([]model.LedgerEntry, error) {
	defer observe("transactions", time.Now())
	s.mu.RLock()
	entries := slices.Clone(s.ledger[wallet])
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	return entries, nil
}

func (s *MemoryStore) WalletTransactions(_ context.Context, wallet string) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Transactions(s.ledger[wallet]), nil
}

func (s *MemoryStore) SaveReputation(_ context.Context, r Record) error {
	defer observe("save_reputation", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.Wallet] = r
	return nil
}

func (s *MemoryStore) Reputation(_ context.Context, wallet string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[wallet]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) SaveFactors(_ context.Context, wallet string, factors []FactorRecord) error {
	defer observe("save_factors", time.Now())
	stored := make([]FactorRecord, len(factors))
	for i, f := range factors {
		f.Wallet = wallet
		stored[i] = f
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factors[wallet] = stored
	return nil
}

func (s *MemoryStore) Factors(_ context.Context, wallet string) ([]FactorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.factors[wallet])
	if out == nil {
		out = []FactorRecord{}
	}
	return out, nil
}

func (s *MemoryStore) Wallets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.records))
	for w := range s.records {
		out = append(out, w)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out, nil
}

func (s *MemoryStore) SaveNFT(_ context.Context, n model.NFT) error {
	defer observe("save_nft", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[n.AssetID]; ok {
		return ErrDuplicate
	}
	s.assets[n.AssetID] = struct{}{}
	s.nfts[n.Wallet] = append(s.nfts[n.Wallet], n)
	return nil
}

func (s *MemoryStore) NFTs(_ context.Context, wallet string) ([]model.NFT, error) {
	s.mu.RLock()
	out := slices.Clone(s.nfts[wallet])
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssueDate.Before(out[j].IssueDate)
	})
	if out == nil {
		out = []model.NFT{}
	}
	return out, nil
}
