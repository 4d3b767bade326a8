// Package service wires the reputation engine to storage, ranking, the
// re-analysis workers and the websocket hub, and implements the operations
// behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/mq/queue"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/mq/worker"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/postgres"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/repository"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/ws"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/benefits"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/dedupe"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// Points awarded to a recorded transaction by category.
var categoryPoints = map[reputation.Category]int{
	reputation.CategoryDeFi:     8,
	reputation.CategoryDAO:      5,
	reputation.CategorySecurity: 4,
	reputation.CategoryNFT:      3,
	reputation.CategoryGeneral:  1,
}

// Service implements the API dependencies for the reputation system.
type Service struct {
	mu sync.RWMutex

	store       feed.Store
	pgPool      *postgres.Pool
	analyzer    *reputation.Analyzer
	leaderboard repository.Leaderboard
	deduper     dedupe.Deduper
	jobs        *queue.InMemoryQueue
	workers     *worker.Pool
	hub         *ws.Hub
	categorizer reputation.Categorizer

	workerCount   int
	queueSize     int
	dedupeSize    int
	wsBufferSize  int
	riskAveraging reputation.RiskAveraging
	postgresDSN   string
	backend       string
	seedDemo      bool
	now           func() time.Time
	assetID       func(n int64) int64

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Nothing is opened until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		dedupeSize:    100_000,
		wsBufferSize:  256,
		riskAveraging: reputation.RiskAveragingActive,
		now:           time.Now,
		assetID:       rand.Int64N,
		categorizer:   reputation.AdvancedCategorizer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens storage, primes the leaderboard and starts the workers and
// the websocket hub. The background components run until ctx is done or
// Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting reputation service...")

	if s.store == nil {
		if err := s.openStore(ctx); err != nil {
			return err
		}
	} else if s.backend == "" {
		s.backend = "external"
	}

	if s.seedDemo {
		if err := feed.Seed(ctx, s.store, s.now()); err != nil {
			s.closeStore()
			return err
		}
	}

	analyzer, err := reputation.NewAnalyzer(s.store,
		reputation.WithClock(s.now),
		reputation.WithRiskAveraging(s.riskAveraging),
		reputation.WithLogger(s.logger.Named("reputation")),
	)
	if err != nil {
		s.closeStore()
		return fmt.Errorf("build analyzer: %w", err)
	}
	s.analyzer = analyzer

	s.leaderboard = repository.NewTreapStore()
	if err := s.primeLeaderboard(ctx); err != nil {
		s.closeStore()
		return err
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.hub = ws.NewHub(ws.WithBufferSize(s.wsBufferSize), ws.WithLogger(s.logger.Named("ws")))
	go s.hub.Run(runCtx)

	s.workers = worker.NewPool(s.workerCount, s.jobs, s.analyzer, s,
		worker.WithLogger(s.logger.Named("worker")))
	s.workers.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "reputation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("wallets", s.leaderboard.Count(ctx)),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) error {
	if s.postgresDSN == "" {
		s.store = feed.NewMemoryStore()
		s.backend = "memory"
		s.logger.Info(ctx, "using in-memory store")
		return nil
	}

	pool, err := postgres.NewPool(ctx, s.postgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("migrate postgres store: %w", err)
	}
	s.pgPool = pool
	s.store = postgres.NewStore(pool)
	s.backend = "postgres"
	s.logger.Info(ctx, "using postgres store")
	return nil
}

func (s *Service) closeStore() {
	if s.pgPool != nil {
		s.pgPool.Close()
		s.pgPool = nil
		s.store = nil
	}
}

func (s *Service) primeLeaderboard(ctx context.Context) error {
	wallets, err := s.store.Wallets(ctx)
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}
	for _, w := range wallets {
		rec, err := s.store.Reputation(ctx, w)
		if err != nil {
			if errors.Is(err, feed.ErrNotFound) {
				continue
			}
			return fmt.Errorf("load reputation of %s: %w", w, err)
		}
		if _, err := s.leaderboard.Upsert(ctx, w, rec.Score); err != nil {
			return fmt.Errorf("rank %s: %w", w, err)
		}
	}
	metrics.UpdateLeaderboardWallets(s.leaderboard.Count(ctx))
	return nil
}

// Stop drains the re-analysis queue, then closes the hub and the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping reputation service...")

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := s.workers.Shutdown(stopCtx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	s.hub.Close()
	s.cancel()
	s.closeStore()

	s.started = false
	s.logger.Info(ctx, "reputation service stopped")
}

// Hub returns the websocket hub, nil before Start.
func (s *Service) Hub() *ws.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Analyze runs the basic pipeline for wallet and persists the result.
func (s *Service) Analyze(ctx context.Context, wallet string) (types.AnalysisResponse, error) {
	return s.analyze(ctx, wallet, reputation.VariantBasic)
}

// AnalyzeAdvanced runs the advanced pipeline for wallet and persists the
// result with its full factor set.
func (s *Service) AnalyzeAdvanced(ctx context.Context, wallet string) (types.AnalysisResponse, error) {
	return s.analyze(ctx, wallet, reputation.VariantAdvanced)
}

func (s *Service) analyze(ctx context.Context, wallet string, v reputation.Variant) (types.AnalysisResponse, error) {
	if err := s.ready(); err != nil {
		return types.AnalysisResponse{}, err
	}

	start := time.Now()
	res, err := s.analyzer.AnalyzeVariant(ctx, wallet, v)
	if err != nil {
		metrics.RecordAnalysisFailure(string(v))
		metrics.RecordErrorByComponent("service", "analysis_error")
		return types.AnalysisResponse{}, err
	}
	metrics.RecordAnalysis(string(v), float64(time.Since(start).Microseconds())/1000, res.CanonicalScore())

	if err := s.Publish(ctx, res); err != nil {
		return types.AnalysisResponse{}, err
	}
	return types.AnalysisResponse{Score: res.CanonicalScore(), Analysis: res}, nil
}

// Publish persists an analysis result, updates the leaderboard and pushes
// the new score to websocket clients. Workers call it for queued jobs.
func (s *Service) Publish(ctx context.Context, res reputation.Result) error {
	score := res.CanonicalScore()
	rec := feed.Record{
		Wallet:      res.Wallet,
		Score:       score,
		Variant:     string(res.Variant),
		Consistency: percent(res.Metrics.ConsistencyScore),
		Longevity:   res.Metrics.LongevityMonths,
		Diversity:   percent(res.Metrics.InteractionDiversity),
		LastUpdated: s.now().UTC(),
	}
	if err := s.store.SaveReputation(ctx, rec); err != nil {
		metrics.RecordErrorByComponent("service", "store_error")
		return fmt.Errorf("save reputation of %s: %w", res.Wallet, err)
	}

	if err := s.store.SaveFactors(ctx, res.Wallet, s.factorRecords(res)); err != nil {
		metrics.RecordErrorByComponent("service", "store_error")
		return fmt.Errorf("save factors of %s: %w", res.Wallet, err)
	}

	changed, err := s.leaderboard.Upsert(ctx, res.Wallet, score)
	if err != nil {
		return fmt.Errorf("rank %s: %w", res.Wallet, err)
	}
	if changed {
		metrics.RecordLeaderboardUpdate()
	}
	metrics.UpdateLeaderboardWallets(s.leaderboard.Count(ctx))

	update := ws.ScoreUpdate{
		Wallet:    res.Wallet,
		Score:     score,
		Variant:   string(res.Variant),
		Timestamp: rec.LastUpdated,
	}
	if entry, err := s.leaderboard.Rank(ctx, res.Wallet); err == nil {
		update.Rank = entry.Rank
	}
	if !s.hub.Broadcast(ctx, update) {
		s.logger.Debug(ctx, "score update not broadcast", logger.String("wallet", res.Wallet))
	}
	return nil
}

func (s *Service) factorRecords(res reputation.Result) []feed.FactorRecord {
	e := s.analyzer.Engine(res.Variant)
	if e == nil {
		return nil
	}
	weights := e.Profile().Weights
	out := make([]feed.FactorRecord, 0, len(weights))
	for _, w := range weights {
		out = append(out, feed.FactorRecord{
			Wallet:   res.Wallet,
			Name:     w.Label,
			Score:    res.Factors.Get(w.Factor),
			MaxScore: reputation.MaxFactorScore,
		})
	}
	return out
}

func percent(x float64) int {
	return int(math.Round(max(0, min(1, x)) * 100))
}

// Reputation returns the stored record of wallet.
func (s *Service) Reputation(ctx context.Context, wallet string) (feed.Record, error) {
	if err := s.ready(); err != nil {
		return feed.Record{}, err
	}
	rec, err := s.store.Reputation(ctx, wallet)
	if errors.Is(err, feed.ErrNotFound) {
		return feed.Record{}, fmt.Errorf("%w: reputation of %s", ErrNotFound, wallet)
	}
	return rec, err
}

// Factors returns the stored factor scores of wallet.
func (s *Service) Factors(ctx context.Context, wallet string) ([]feed.FactorRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Factors(ctx, wallet)
}

// Transactions returns up to limit recorded transactions, newest first.
func (s *Service) Transactions(ctx context.Context, wallet string, limit int) ([]model.LedgerEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Transactions(ctx, wallet, limit)
}

// RecordTransaction validates and stores a transaction for wallet and
// queues an advanced re-analysis. A repeated transaction ID is reported as
// a duplicate and not stored again. ErrBackpressure is returned, before
// anything is stored, when the re-analysis queue is full.
func (s *Service) RecordTransaction(ctx context.Context, wallet string, in types.TransactionInput) (types.RecordResult, error) {
	if err := s.ready(); err != nil {
		return types.RecordResult{}, err
	}
	if err := in.Validate(); err != nil {
		metrics.RecordTransactionRejected()
		return types.RecordResult{}, err
	}
	if s.jobs.Len(ctx) >= s.jobs.Cap() {
		metrics.RecordTransactionRejected()
		return types.RecordResult{}, ErrBackpressure
	}

	if in.TxID == "" {
		in.TxID = uuid.NewString()
	}
	entry := in.LedgerEntry(wallet, s.now())
	entry.ReputationPoints = s.points(entry.Transaction())
	result := types.RecordResult{TxID: entry.TxID, ReputationPoints: entry.ReputationPoints}

	if s.deduper.SeenAndRecord(ctx, entry.TxID) {
		metrics.RecordTransactionDuplicate()
		result.Duplicate = true
		return result, nil
	}
	if err := s.store.AddTransaction(ctx, entry); err != nil {
		if errors.Is(err, feed.ErrDuplicate) {
			metrics.RecordTransactionDuplicate()
			result.Duplicate = true
			return result, nil
		}
		s.deduper.Unrecord(ctx, entry.TxID)
		metrics.RecordErrorByComponent("service", "store_error")
		return types.RecordResult{}, fmt.Errorf("store transaction %s: %w", entry.TxID, err)
	}
	metrics.RecordTransaction()

	job := queue.Job{
		ID:         uuid.NewString(),
		Wallet:     wallet,
		Variant:    string(reputation.VariantAdvanced),
		Reason:     "transaction " + entry.TxID,
		EnqueuedAt: s.now(),
	}
	if err := s.jobs.Submit(ctx, job); err != nil {
		s.logger.Warn(ctx, "re-analysis not queued",
			logger.String("wallet", wallet),
			logger.String("txID", entry.TxID),
			logger.Error(err),
		)
		return result, nil
	}
	result.Queued = true
	return result, nil
}

func (s *Service) points(tx model.Transaction) int {
	best := 0
	for _, c := range s.categorizer.Categorize(tx) {
		best = max(best, categoryPoints[c.Category])
	}
	return best
}

// TopN returns the top n leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries, err := s.leaderboard.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{Rank: e.Rank, Wallet: e.Wallet, Score: e.Score}
	}
	return out, nil
}

// Rank returns the leaderboard position of wallet.
func (s *Service) Rank(ctx context.Context, wallet string) (types.RankResponse, error) {
	if err := s.ready(); err != nil {
		return types.RankResponse{}, err
	}
	e, err := s.leaderboard.Rank(ctx, wallet)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.RankResponse{}, fmt.Errorf("%w: rank of %s", ErrNotFound, wallet)
		}
		return types.RankResponse{}, err
	}
	return types.RankResponse{
		Entry: types.Entry{Rank: e.Rank, Wallet: e.Wallet, Score: e.Score},
		Total: s.leaderboard.Count(ctx),
	}, nil
}

// LeaderboardSize returns the number of ranked wallets.
func (s *Service) LeaderboardSize(ctx context.Context) int {
	if s.ready() != nil {
		return 0
	}
	return s.leaderboard.Count(ctx)
}

// Benefits summarizes the perks unlocked by wallet's stored score.
func (s *Service) Benefits(ctx context.Context, wallet string) (benefits.Summary, error) {
	rec, err := s.Reputation(ctx, wallet)
	if err != nil {
		return benefits.Summary{}, err
	}
	return benefits.Summarize(wallet, rec.Score), nil
}

// Asset IDs are drawn from [minAssetID, minAssetID+assetIDSpan).
const (
	minAssetID       = 100_000
	assetIDSpan      = 900_000
	maxAssetAttempts = 8
)

// NFTs returns the soulbound NFTs issued to wallet, oldest first.
func (s *Service) NFTs(ctx context.Context, wallet string) ([]model.NFT, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.NFTs(ctx, wallet)
}

// MintNFT issues a soulbound NFT to wallet. The level may not exceed the
// level of the wallet's tier; wallets never analyzed count as newcomers.
func (s *Service) MintNFT(ctx context.Context, wallet string, in types.NFTInput) (types.MintResult, error) {
	if err := s.ready(); err != nil {
		return types.MintResult{}, err
	}
	if err := in.Validate(); err != nil {
		return types.MintResult{}, err
	}

	score := 0
	rec, err := s.store.Reputation(ctx, wallet)
	switch {
	case err == nil:
		score = rec.Score
	case !errors.Is(err, feed.ErrNotFound):
		return types.MintResult{}, fmt.Errorf("load reputation of %s: %w", wallet, err)
	}
	tier := benefits.TierFor(score)
	if in.Level > tier.Level() {
		return types.MintResult{}, fmt.Errorf("%w: level %d needs a higher tier than %s", ErrLevelLocked, in.Level, tier)
	}

	for range maxAssetAttempts {
		n := in.NFT(wallet, minAssetID+s.assetID(assetIDSpan), s.now())
		err := s.store.SaveNFT(ctx, n)
		if errors.Is(err, feed.ErrDuplicate) {
			continue
		}
		if err != nil {
			metrics.RecordErrorByComponent("service", "store_error")
			return types.MintResult{}, fmt.Errorf("store nft for %s: %w", wallet, err)
		}
		metrics.RecordNFTMinted(n.Level)
		s.logger.Info(ctx, "soulbound nft issued",
			logger.String("wallet", wallet),
			logger.Int64("assetID", n.AssetID),
			logger.Int("level", n.Level),
		)
		return types.MintResult{
			Message:  "Soulbound NFT created successfully",
			AssetID:  n.AssetID,
			NFT:      n,
			Metadata: n.Metadata(),
		}, nil
	}
	return types.MintResult{}, fmt.Errorf("store nft for %s: no free asset id after %d attempts", wallet, maxAssetAttempts)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"riskAveraging": string(s.riskAveraging),
	}
	if s.started {
		stats["queueLength"] = s.jobs.Len(ctx)
		stats["rankedWallets"] = s.leaderboard.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["wsClients"] = s.hub.Clients()
		pool := s.workers.GetStats()
		stats["jobsProcessed"] = pool.Processed
		stats["jobsFailed"] = pool.Failed
		stats["store"] = s.backend
	}
	return stats
}
