package reputation

import (
	"math"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// Metric normalisation constants.
const (
	interactionDiversityCap = 50.0
	valueBuckets            = 5
	regularityCVSpan        = 2.0
	riskBaseline            = 0.5
)

// Metrics is the derived statistics record of one analysis run. Counts are
// raw; ratios are in [0,1]. The basic profile leaves the fields from
// ConsistencyScore onwards at zero.
type Metrics struct {
	TotalTransactions      int     `json:"totalTransactions"`
	TransactionFrequency   float64 `json:"transactionFrequency"`
	AverageTransactionSize float64 `json:"averageTransactionSize"`
	TransactionDiversity   int     `json:"transactionDiversity"`
	LongevityMonths        int     `json:"longevityMonths"`
	DeFiInteractions       int     `json:"defiInteractions"`
	NFTTransactions        int     `json:"nftTransactions"`
	DAOVotes               int     `json:"daoVotes"`

	ConsistencyScore      float64 `json:"consistencyScore"`
	InteractionDiversity  float64 `json:"interactionDiversity"`
	RiskScore             float64 `json:"riskScore"`
	ValueDistribution     float64 `json:"valueDistribution"`
	TransactionGrowthRate float64 `json:"transactionGrowthRate"`
	Regularity            float64 `json:"regularity"`
	NetworkCentrality     float64 `json:"networkCentrality"`
	TemporalPatterns      float64 `json:"temporalPatterns"`
}

// ComputeMetrics derives Metrics from txs under profile p as of now.
// Empty input yields the zero record.
func ComputeMetrics(txs []model.Transaction, p Profile, now time.Time) Metrics {
	m, _ := computeMetrics(sortByTime(txs), p, now)
	return m
}

func computeMetrics(sorted []model.Transaction, p Profile, now time.Time) (Metrics, map[Pattern]float64) {
	if len(sorted) == 0 {
		return Metrics{}, map[Pattern]float64{}
	}

	m := Metrics{TotalTransactions: len(sorted)}
	age := now.Sub(sorted[0].Timestamp)
	m.LongevityMonths = max(1, int(math.Floor(float64(age)/float64(monthDuration))))

	var total float64
	types := make(map[string]struct{})
	for _, tx := range sorted {
		total += math.Abs(tx.Amount)
		types[tx.Type] = struct{}{}
	}
	m.AverageTransactionSize = total / float64(len(sorted))
	m.TransactionFrequency = float64(len(sorted)) / float64(m.LongevityMonths)
	m.TransactionDiversity = len(types)

	sums := p.Categorizer.tally(sorted)
	m.DeFiInteractions = int(math.Round(sums[CategoryDeFi]))
	m.NFTTransactions = int(math.Round(sums[CategoryNFT]))
	m.DAOVotes = int(math.Round(sums[CategoryDAO]))

	if !p.Extended {
		return m, map[Pattern]float64{}
	}

	counts, months := monthlyActivity(sorted)
	m.ConsistencyScore = consistency(counts, months)
	m.InteractionDiversity = interactionDiversity(sorted)
	m.TransactionGrowthRate = growthRate(counts, months)
	m.ValueDistribution = valueDistribution(sorted)
	m.Regularity = regularity(sorted)
	m.NetworkCentrality = AnalyzeNetwork(sorted).CentralityScore

	patterns := DetectPatterns(sorted, p.Categorizer, now)
	if len(patterns) > 0 {
		var sum float64
		for _, group := range [][]Pattern{PositivePatterns, SuspiciousPatterns} {
			for _, name := range group {
				sum += patterns[name]
			}
		}
		m.TemporalPatterns = sum / float64(len(patterns))
	}
	m.RiskScore = riskScore(patterns, p.RiskAveraging)
	return m, patterns
}

func consistency(counts map[int]int, months []int) float64 {
	active := len(months)
	if active == 0 {
		return 0
	}
	span := 1
	if active >= 2 {
		span = months[active-1] - months[0] + 1
	}
	perMonth := make([]float64, 0, active)
	for _, k := range months {
		perMonth = append(perMonth, float64(counts[k]))
	}
	mean, std := meanStdDev(perMonth)
	if mean <= 0 {
		return 0
	}
	activeRatio := float64(active) / float64(span)
	return clamp01(activeRatio * (1 - math.Min(1, std/mean)))
}

func interactionDiversity(txs []model.Transaction) float64 {
	recipients := make(map[string]struct{})
	for _, tx := range txs {
		if tx.Recipient != "" {
			recipients[tx.Recipient] = struct{}{}
		}
	}
	return math.Min(1, float64(len(recipients))/interactionDiversityCap)
}

// growthRate compares activity in the later half of the active months with
// the earlier half, normalised from [-1,1] into [0,1].
func growthRate(counts map[int]int, months []int) float64 {
	var raw float64
	if len(months) > 1 {
		half := len(months) / 2
		var first, second int
		for _, k := range months[:half] {
			first += counts[k]
		}
		for _, k := range months[half:] {
			second += counts[k]
		}
		if first > 0 {
			raw = float64(second-first) / float64(first)
		}
	}
	return clamp01((raw + 1) / 2)
}

// valueDistribution is the normalised Shannon entropy of amounts over five
// equal-width buckets. Identical amounts score 0.
func valueDistribution(txs []model.Transaction) float64 {
	lo, hi := txs[0].Amount, txs[0].Amount
	for _, tx := range txs[1:] {
		lo = math.Min(lo, tx.Amount)
		hi = math.Max(hi, tx.Amount)
	}
	spread := hi - lo
	if spread <= 0 {
		return 0
	}
	var buckets [valueBuckets]int
	for _, tx := range txs {
		idx := int(math.Floor((tx.Amount - lo) / spread * valueBuckets))
		buckets[min(valueBuckets-1, max(0, idx))]++
	}
	n := float64(len(txs))
	var entropy float64
	for _, c := range buckets {
		if c == 0 {
			continue
		}
		pr := float64(c) / n
		entropy -= pr * math.Log2(pr)
	}
	return clamp01(entropy / math.Log2(valueBuckets))
}

func regularity(sorted []model.Transaction) float64 {
	cv, ok := coefficientOfVariation(intervals(sorted))
	if !ok {
		return 0
	}
	return math.Max(0, 1-math.Min(1, cv/regularityCVSpan))
}

// riskScore nets suspicious against positive pattern averages around 0.5.
func riskScore(patterns map[Pattern]float64, mode RiskAveraging) float64 {
	suspicious := averagePatterns(patterns, SuspiciousPatterns, mode)
	positive := averagePatterns(patterns, PositivePatterns, mode)
	return clamp01(suspicious - positive + riskBaseline)
}

func averagePatterns(patterns map[Pattern]float64, group []Pattern, mode RiskAveraging) float64 {
	var sum float64
	fired := 0
	for _, p := range group {
		s := patterns[p]
		sum += s
		if s > 0 {
			fired++
		}
	}
	divisor := max(1, fired)
	if mode == RiskAveragingFixed {
		divisor = len(group)
	}
	return sum / float64(divisor)
}
