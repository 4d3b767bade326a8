// Package api registers the HTTP routes of the reputation service.
package api

import (
	"context"
	"net/http"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/benefits"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// Default limits applied when no option overrides them.
const (
	defaultMaxLeaderboardLimit       = 100
	defaultTransactionLimit          = 10
	defaultLeaderboardLimit          = 10
	maxTransactionLimit              = 1000
	maxTransactionBodyBytes    int64 = 64 << 10
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ReputationDependencies
	TransactionDependencies
	AnalyzeDependencies
	LeaderboardDependencies
	RankDependencies
	NFTDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// ReputationDependencies serves stored reputation data.
type ReputationDependencies interface {
	Reputation(ctx context.Context, wallet string) (feed.Record, error)
	Factors(ctx context.Context, wallet string) ([]feed.FactorRecord, error)
	Benefits(ctx context.Context, wallet string) (benefits.Summary, error)
}

// TransactionDependencies lists and records wallet transactions.
type TransactionDependencies interface {
	Transactions(ctx context.Context, wallet string, limit int) ([]model.LedgerEntry, error)
	RecordTransaction(ctx context.Context, wallet string, in types.TransactionInput) (types.RecordResult, error)
}

// NFTDependencies lists and issues soulbound NFTs.
type NFTDependencies interface {
	NFTs(ctx context.Context, wallet string) ([]model.NFT, error)
	MintNFT(ctx context.Context, wallet string, in types.NFTInput) (types.MintResult, error)
}

// AnalyzeDependencies runs the analysis pipelines.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, wallet string) (types.AnalysisResponse, error)
	AnalyzeAdvanced(ctx context.Context, wallet string) (types.AnalysisResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	reputationHandler  *ReputationHandler
	transactionHandler *TransactionHandler
	analyzeHandler     *AnalyzeHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	nftHandler         *NFTHandler
	ws                 http.Handler
}

// Option configures a Server.
type Option func(*settings)

type settings struct {
	maxLeaderboardLimit int
	transactionLimit    int
	ws                  http.Handler
}

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithDefaultTransactionLimit sets the page size of GET /api/transactions.
func WithDefaultTransactionLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.transactionLimit = n
		}
	}
}

// WithWebsocket serves h at GET /ws.
func WithWebsocket(h http.Handler) Option {
	return func(s *settings) {
		s.ws = h
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := settings{
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		transactionLimit:    defaultTransactionLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		reputationHandler:  NewReputationHandler(deps),
		transactionHandler: NewTransactionHandler(deps, cfg.transactionLimit),
		analyzeHandler:     NewAnalyzeHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		nftHandler:         NewNFTHandler(deps),
		ws:                 cfg.ws,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/reputation/{wallet}", MetricsMiddleware(s.reputationHandler.HandleGetReputation, "reputation"))
	mux.HandleFunc("GET /api/reputation/{wallet}/factors", MetricsMiddleware(s.reputationHandler.HandleGetFactors, "factors"))
	mux.HandleFunc("GET /api/benefits/{wallet}", MetricsMiddleware(s.reputationHandler.HandleGetBenefits, "benefits"))

	mux.HandleFunc("GET /api/transactions/{wallet}", MetricsMiddleware(s.transactionHandler.HandleList, "transactions"))
	mux.HandleFunc("POST /api/transactions/{wallet}", MetricsMiddleware(s.transactionHandler.HandleRecord, "transactions"))

	mux.HandleFunc("GET /api/nfts/{wallet}", MetricsMiddleware(s.nftHandler.HandleList, "nfts"))
	mux.HandleFunc("POST /api/nfts/{wallet}", MetricsMiddleware(s.nftHandler.HandleMint, "nfts"))

	mux.HandleFunc("POST /api/analyze/{wallet}", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("POST /api/analyze-advanced/{wallet}", MetricsMiddleware(s.analyzeHandler.HandleAnalyzeAdvanced, "analyze_advanced"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /rank/{wallet}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))

	if s.ws != nil {
		mux.Handle("GET /ws", s.ws)
	}
}
