package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

// Treap-based, in-memory Leaderboard.
//
// Ordering: score DESC, then wallet ASC. "less" means ranks earlier, so an
// in-order traversal yields the leaderboard from best to worst. Priorities
// are random, which keeps the expected depth logarithmic regardless of the
// score distribution.

const storeBackend = "treap"

type node struct {
	wallet string
	score  int
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aWallet) ranks before (bScore, bWallet).
func less(aScore int, aWallet string, bScore int, bWallet string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aWallet < bWallet
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, fresh *node) *node {
	if n == nil {
		return fresh
	}
	if less(fresh.score, fresh.wallet, n.score, n.wallet) {
		n.left = insert(n.left, fresh)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, fresh)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, wallet string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.score == score && n.wallet == wallet:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, wallet, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, wallet, score)
		}
	case less(score, wallet, n.score, n.wallet):
		n.left = deleteNode(n.left, wallet, score)
	default:
		n.right = deleteNode(n.right, wallet, score)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes hold a score strictly greater than score.
func countAbove(n *node, score int) int {
	count := 0
	for n != nil {
		if n.score > score {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Wallet: n.wallet, Score: n.score})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// assignCompetitionRanks ranks a prefix of the leaderboard: equal scores
// share a rank and the next distinct score skips the shared positions.
func assignCompetitionRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// TreapStore implements Leaderboard.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[string]int
	rng    *rand.Rand
	seed   uint64
	seeded bool
}

var _ Leaderboard = (*TreapStore)(nil)

// NewTreapStore constructs an empty leaderboard.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{byID: make(map[string]int)}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeded {
		s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Upsert implements Leaderboard.Upsert in O(log n) expected time.
func (s *TreapStore) Upsert(_ context.Context, wallet string, score int) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency(storeBackend, "upsert", float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.Lock()
	old, ok := s.byID[wallet]
	if ok && old == score {
		s.mu.Unlock()
		return false, nil
	}
	if ok {
		s.root = deleteNode(s.root, wallet, old)
	}
	s.byID[wallet] = score
	s.root = insert(s.root, &node{wallet: wallet, score: score, prio: s.rng.Uint64(), size: 1})
	count := len(s.byID)
	s.mu.Unlock()

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardWallets(count)
	return true, nil
}

// Rank returns the wallet's competition rank in O(log n) expected time.
func (s *TreapStore) Rank(_ context.Context, wallet string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.byID[wallet]
	if !ok {
		metrics.RecordErrorByComponent("leaderboard", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{Rank: countAbove(s.root, score) + 1, Wallet: wallet, Score: score}, nil
}

// TopN returns the top n entries.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("leaderboard", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &out)
	assignCompetitionRanks(out)
	return out, nil
}

// Count returns the number of ranked wallets.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
