// Package reputation turns a wallet's transaction history into a reputation
// score and an explanation of it.
//
// A single Engine runs either pipeline. The Profile it is built from selects
// the categorizer, the factor set and weights, the output scale and whether
// the narrative is produced. The engine is pure and safe for concurrent use.
package reputation

import (
	"context"
	"fmt"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// Result is the outcome of one analysis run. Explanation is nil for the
// basic pipeline.
type Result struct {
	Wallet     string              `json:"wallet,omitempty"`
	Variant    Variant             `json:"variant"`
	TotalScore int                 `json:"totalScore"`
	Scale      int                 `json:"scale"`
	Factors    Factors             `json:"factors"`
	Metrics    Metrics             `json:"metrics"`
	Patterns   map[Pattern]float64 `json:"patterns,omitempty"`
	*Explanation
}

// CanonicalScore returns TotalScore rescaled to [0,1000].
func (r Result) CanonicalScore() int {
	if r.Scale <= 0 {
		return 0
	}
	return r.TotalScore * (ScaleCanonical / r.Scale)
}

// Engine evaluates transaction sets under one Profile.
type Engine struct {
	profile Profile
	now     func() time.Time
}

// NewEngine validates p and builds an Engine.
func NewEngine(p Profile, opts ...Option) (*Engine, error) {
	s := newSettings(opts)
	if s.riskAveraging != "" {
		p.RiskAveraging = s.riskAveraging
	}
	if p.RiskAveraging == "" {
		p.RiskAveraging = RiskAveragingActive
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{profile: p, now: s.now}, nil
}

// Profile returns the engine's profile.
func (e *Engine) Profile() Profile { return e.profile }

// Evaluate runs the full pipeline over txs. The input order is irrelevant.
func (e *Engine) Evaluate(txs []model.Transaction) Result {
	p := e.profile
	metrics, patterns := computeMetrics(sortByTime(txs), p, e.now())
	factors := ComputeFactors(metrics, p)
	total, breakdown := Aggregate(factors, p)

	r := Result{
		Variant:    p.Variant,
		TotalScore: total,
		Scale:      p.Scale,
		Factors:    factors,
		Metrics:    metrics,
	}
	if !p.Narrative {
		return r
	}
	if len(patterns) > 0 {
		r.Patterns = patterns
	}
	r.Explanation = &Explanation{
		ConfidenceScore: Confidence(metrics),
		FactorBreakdown: breakdown,
		Insights:        Insights(metrics),
		Anomalies:       Anomalies(metrics),
		Recommendations: Recommendations(metrics, factors),
		PredictedGrowth: PredictGrowth(metrics, total),
	}
	return r
}

// Feed supplies a wallet's full known transaction history. Unknown wallets
// yield an empty slice, not an error.
type Feed interface {
	WalletTransactions(ctx context.Context, wallet string) ([]model.Transaction, error)
}

// Analyzer fetches wallet transactions and runs both pipelines over them.
type Analyzer struct {
	feed     Feed
	basic    *Engine
	advanced *Engine
	logger   logger.Logger
}

// NewAnalyzer builds an Analyzer over the built-in profiles. It fails when
// the options produce an invalid profile.
func NewAnalyzer(feed Feed, opts ...Option) (*Analyzer, error) {
	s := newSettings(opts)
	basic, err := NewEngine(BasicProfile(), opts...)
	if err != nil {
		return nil, err
	}
	advanced, err := NewEngine(AdvancedProfile(), opts...)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		feed:     feed,
		basic:    basic,
		advanced: advanced,
		logger:   s.logger,
	}, nil
}

// Analyze runs the basic pipeline for wallet.
func (a *Analyzer) Analyze(ctx context.Context, wallet string) (Result, error) {
	return a.run(ctx, wallet, a.basic)
}

// AnalyzeAdvanced runs the advanced pipeline for wallet.
func (a *Analyzer) AnalyzeAdvanced(ctx context.Context, wallet string) (Result, error) {
	return a.run(ctx, wallet, a.advanced)
}

// AnalyzeVariant runs the pipeline named by v for wallet.
func (a *Analyzer) AnalyzeVariant(ctx context.Context, wallet string, v Variant) (Result, error) {
	switch v {
	case VariantBasic:
		return a.Analyze(ctx, wallet)
	case VariantAdvanced:
		return a.AnalyzeAdvanced(ctx, wallet)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Engine returns the engine behind variant v, or nil.
func (a *Analyzer) Engine(v Variant) *Engine {
	switch v {
	case VariantBasic:
		return a.basic
	case VariantAdvanced:
		return a.advanced
	default:
		return nil
	}
}

func (a *Analyzer) run(ctx context.Context, wallet string, e *Engine) (Result, error) {
	txs, err := a.feed.WalletTransactions(ctx, wallet)
	if err != nil {
		if a.logger != nil {
			a.logger.Error(ctx, "fetching wallet transactions failed",
				logger.String("wallet", wallet),
				logger.String("variant", string(e.profile.Variant)),
				logger.Error(err),
			)
		}
		return Result{}, fmt.Errorf("%w: wallet %s: %w", ErrAnalysisFailed, wallet, err)
	}

	r := e.Evaluate(txs)
	r.Wallet = wallet
	if a.logger != nil {
		a.logger.Debug(ctx, "wallet analyzed",
			logger.String("wallet", wallet),
			logger.String("variant", string(r.Variant)),
			logger.Int("transactions", len(txs)),
			logger.Int("totalScore", r.TotalScore),
		)
	}
	return r, nil
}
