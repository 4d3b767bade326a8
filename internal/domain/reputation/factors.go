package reputation

import "math"

// FactorName is the stable key of a factor score.
type FactorName string

// Core factors, present in both pipelines.
const (
	FactorTransactionHistory FactorName = "transactionHistoryScore"
	FactorDeFiParticipation  FactorName = "defiParticipationScore"
	FactorDAOGovernance      FactorName = "daoGovernanceScore"
	FactorNFTActivity        FactorName = "nftActivityScore"
)

// Advanced-only factors.
const (
	FactorConsistency       FactorName = "consistencyFactor"
	FactorDiversity         FactorName = "diversityFactor"
	FactorGrowth            FactorName = "growthFactor"
	FactorRiskAssessment    FactorName = "riskAssessmentFactor"
	FactorValueDistribution FactorName = "valueDistributionFactor"
	FactorNetworkPosition   FactorName = "networkPositionFactor"
	FactorTemporalBehavior  FactorName = "temporalBehaviorFactor"
)

// MaxFactorScore is the upper bound of every factor.
const MaxFactorScore = 100

var factorFormulas = map[FactorName]func(Metrics) float64{
	FactorTransactionHistory: func(m Metrics) float64 {
		return math.Min(float64(m.TotalTransactions)/2, 80) + math.Min(m.TransactionFrequency*5, 20)
	},
	FactorDeFiParticipation: func(m Metrics) float64 {
		d := float64(m.DeFiInteractions)
		return math.Min(d*5, 80) + bonus(d, 10, 20, 2)
	},
	FactorDAOGovernance: func(m Metrics) float64 {
		v := float64(m.DAOVotes)
		return math.Min(v*10, 90) + bonus(v, 5, 10, 2)
	},
	FactorNFTActivity: func(m Metrics) float64 {
		t := float64(m.NFTTransactions)
		return math.Min(t*8, 80) + bonus(t, 5, 20, 4)
	},
	FactorConsistency: func(m Metrics) float64 {
		return m.ConsistencyScore * 100
	},
	FactorDiversity: func(m Metrics) float64 {
		return (m.InteractionDiversity*0.5 + math.Min(1, float64(m.TransactionDiversity)/10)*0.5) * 100
	},
	FactorGrowth: func(m Metrics) float64 {
		return m.TransactionGrowthRate * 100
	},
	FactorRiskAssessment: func(m Metrics) float64 {
		return (1 - m.RiskScore) * 100
	},
	FactorValueDistribution: func(m Metrics) float64 {
		return m.ValueDistribution * 100
	},
	FactorNetworkPosition: func(m Metrics) float64 {
		return m.NetworkCentrality * 100
	},
	FactorTemporalBehavior: func(m Metrics) float64 {
		return (m.Regularity*0.7 + m.TemporalPatterns*0.3) * 100
	},
}

// bonus is the step reward: flat above the threshold, linear at or below it.
func bonus(x, threshold, flat, perUnit float64) float64 {
	if x > threshold {
		return flat
	}
	return x * perUnit
}

// Known reports whether n names a defined factor.
func (n FactorName) Known() bool {
	_, ok := factorFormulas[n]
	return ok
}

// Factors holds integer factor scores in [0,100] keyed by name.
type Factors map[FactorName]int

// Get returns the score of n, 0 if absent.
func (f Factors) Get(n FactorName) int {
	return f[n]
}

// ComputeFactors scores every factor of profile p from m. A record with no
// transactions scores 0 on every factor.
func ComputeFactors(m Metrics, p Profile) Factors {
	out := make(Factors, len(p.Weights))
	for _, w := range p.Weights {
		if m.TotalTransactions == 0 {
			out[w.Factor] = 0
			continue
		}
		formula, ok := factorFormulas[w.Factor]
		if !ok {
			continue
		}
		out[w.Factor] = clampFactor(formula(m))
	}
	return out
}

func clampFactor(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return min(MaxFactorScore, int(math.Floor(v+floorEpsilon)))
}
