package reputation

import (
	"math"
	"strings"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// Pattern names a multi-transaction behaviour.
type Pattern string

// Positive patterns.
const (
	PatternRegularStaking          Pattern = "regular_staking"
	PatternConsistentParticipation Pattern = "consistent_participation"
	PatternDiverseEngagement       Pattern = "diverse_ecosystem_engagement"
)

// Suspicious patterns.
const (
	PatternSmallTransfers Pattern = "multiple_small_transfers"
	PatternErraticTiming  Pattern = "erratic_timing"
	PatternHighVelocity   Pattern = "high_velocity_transfers"
)

// Detection thresholds.
const (
	minPatternTransactions = 5
	minStakingTransactions = 3
	stakingRegularityFloor = 0.7
	minDiverseCategories   = 2
	diverseCategoryCap     = 4.0
	smallTransferWindowMin = 5
	smallTransferAmount    = 10.0
	smallTransferWindowCap = 5.0
	minErraticTransactions = 10
	erraticCVThreshold     = 2.0
	erraticCVSpan          = 3.0
	velocityRatioThreshold = 0.9
	velocityRatioScale     = 10.0
)

// PositivePatterns are the patterns that lower risk.
var PositivePatterns = []Pattern{PatternRegularStaking, PatternConsistentParticipation, PatternDiverseEngagement}

// SuspiciousPatterns are the patterns that raise risk.
var SuspiciousPatterns = []Pattern{PatternSmallTransfers, PatternErraticTiming, PatternHighVelocity}

// DetectPatterns scans transactions sorted by timestamp ascending and returns
// the score of every pattern found. A missing key means not detected.
// Fewer than five transactions yield an empty map.
func DetectPatterns(sorted []model.Transaction, c Categorizer, now time.Time) map[Pattern]float64 {
	patterns := make(map[Pattern]float64)
	if len(sorted) < minPatternTransactions {
		return patterns
	}

	if score, ok := regularStaking(sorted); ok {
		patterns[PatternRegularStaking] = score
	}
	if score, ok := consistentParticipation(sorted, now); ok {
		patterns[PatternConsistentParticipation] = score
	}
	if score, ok := diverseEngagement(sorted, c); ok {
		patterns[PatternDiverseEngagement] = score
	}
	if score, ok := smallTransfers(sorted); ok {
		patterns[PatternSmallTransfers] = score
	}
	if score, ok := erraticTiming(sorted); ok {
		patterns[PatternErraticTiming] = score
	}
	if score, ok := highVelocity(sorted); ok {
		patterns[PatternHighVelocity] = score
	}
	return patterns
}

func isStaking(tx model.Transaction) bool {
	typ := strings.ToLower(tx.Type)
	return strings.Contains(typ, "staking") ||
		strings.Contains(typ, "stake") ||
		strings.Contains(strings.ToLower(tx.Note), "stake")
}

func regularStaking(sorted []model.Transaction) (float64, bool) {
	var staking []model.Transaction
	for _, tx := range sorted {
		if isStaking(tx) {
			staking = append(staking, tx)
		}
	}
	if len(staking) < minStakingTransactions {
		return 0, false
	}
	cv, ok := coefficientOfVariation(intervals(staking))
	if !ok {
		return 0, false
	}
	score := math.Max(0, 1-cv)
	return score, score > stakingRegularityFloor
}

func consistentParticipation(sorted []model.Transaction, now time.Time) (float64, bool) {
	_, active := monthlyActivity(sorted)
	total := monthIndex(now) - monthIndex(sorted[0].Timestamp) + 1
	if total <= 0 {
		return 0, false
	}
	return math.Min(1, float64(len(active))/float64(total)), true
}

func diverseEngagement(sorted []model.Transaction, c Categorizer) (float64, bool) {
	touched := len(c.tally(sorted))
	if touched < minDiverseCategories {
		return 0, false
	}
	return math.Min(1, float64(touched)/diverseCategoryCap), true
}

func smallTransfers(sorted []model.Transaction) (float64, bool) {
	type window struct {
		count int
		small bool
	}
	windows := make(map[int64]*window)
	for _, tx := range sorted {
		key := tx.Timestamp.Unix() / int64(time.Hour/time.Second)
		w, ok := windows[key]
		if !ok {
			w = &window{small: true}
			windows[key] = w
		}
		w.count++
		if tx.Amount >= smallTransferAmount {
			w.small = false
		}
	}
	found := 0
	for _, w := range windows {
		if w.count >= smallTransferWindowMin && w.small {
			found++
		}
	}
	if found == 0 {
		return 0, false
	}
	return math.Min(1, float64(found)/smallTransferWindowCap), true
}

func erraticTiming(sorted []model.Transaction) (float64, bool) {
	if len(sorted) < minErraticTransactions {
		return 0, false
	}
	cv, ok := coefficientOfVariation(intervals(sorted))
	if !ok || cv <= erraticCVThreshold {
		return 0, false
	}
	return math.Min(1, (cv-erraticCVThreshold)/erraticCVSpan), true
}

// highVelocity compares funds leaving the reference wallet with funds
// arriving at it. The reference is the sender of the earliest transaction.
func highVelocity(sorted []model.Transaction) (float64, bool) {
	ref := sorted[0].Sender
	if ref == "" {
		return 0, false
	}
	var inflow, outflow float64
	for _, tx := range sorted {
		if tx.Recipient == ref {
			inflow += tx.Amount
		}
		if tx.Sender == ref {
			outflow += tx.Amount
		}
	}
	if inflow <= 0 {
		return 0, false
	}
	ratio := outflow / inflow
	if ratio <= velocityRatioThreshold {
		return 0, false
	}
	return math.Min(1, (ratio-velocityRatioThreshold)*velocityRatioScale), true
}
