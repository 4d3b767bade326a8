package reputation

import (
	"fmt"
	"math"
	"strings"
)

// Explanation is the narrative part of an advanced analysis.
type Explanation struct {
	ConfidenceScore int            `json:"confidenceScore"`
	FactorBreakdown map[string]int `json:"factorBreakdown"`
	Insights        []string       `json:"insights"`
	Anomalies       []string       `json:"anomalies"`
	Recommendations []string       `json:"recommendations"`
	PredictedGrowth int            `json:"predictedGrowth"`
}

// Insights describes notable threshold crossings in m.
func Insights(m Metrics) []string {
	out := []string{}
	if m.TotalTransactions == 0 {
		return out
	}

	switch {
	case m.LongevityMonths >= 12:
		out = append(out, fmt.Sprintf("Long-term wallet with %d months of activity, indicating established presence on the blockchain.", m.LongevityMonths))
	case m.LongevityMonths < 3:
		out = append(out, fmt.Sprintf("Relatively new wallet with only %d months of activity.", m.LongevityMonths))
	}

	switch {
	case m.ConsistencyScore > 0.8:
		out = append(out, "Highly consistent transaction patterns showing regular blockchain activity.")
	case m.ConsistencyScore < 0.3 && m.TotalTransactions > 10:
		out = append(out, "Irregular transaction patterns with sporadic activity periods.")
	}

	var areas []string
	if m.DeFiInteractions > 5 {
		areas = append(areas, "DeFi")
	}
	if m.NFTTransactions > 5 {
		areas = append(areas, "NFTs")
	}
	if m.DAOVotes > 3 {
		areas = append(areas, "DAO governance")
	}
	switch {
	case len(areas) >= 2:
		out = append(out, fmt.Sprintf("Active participation across multiple ecosystem areas: %s.", strings.Join(areas, ", ")))
	case len(areas) == 1:
		out = append(out, fmt.Sprintf("Focused participation primarily in %s.", areas[0]))
	}

	switch {
	case m.TransactionGrowthRate > 0.7:
		out = append(out, "Strong positive growth in transaction activity, suggesting increasing blockchain engagement.")
	case m.TransactionGrowthRate < 0.3 && m.TotalTransactions > 10:
		out = append(out, "Declining transaction activity over time.")
	}

	switch {
	case m.RiskScore < 0.2:
		out = append(out, "Very low risk profile with consistent patterns and healthy transaction behaviors.")
	case m.RiskScore > 0.7:
		out = append(out, "Higher risk profile with some potentially concerning transaction patterns.")
	}

	switch {
	case m.NetworkCentrality > 0.7:
		out = append(out, "Well-connected wallet with balanced transaction relationships.")
	case m.InteractionDiversity > 0.8:
		out = append(out, "Diverse interaction profile with many different counterparties.")
	case m.InteractionDiversity < 0.2 && m.TotalTransactions > 5:
		out = append(out, "Limited interaction diversity with repeated transactions to few counterparties.")
	}
	return out
}

// Anomalies flags behaviour that diverges from typical wallets.
func Anomalies(m Metrics) []string {
	out := []string{}
	if m.TotalTransactions == 0 {
		return out
	}
	if m.RiskScore > 0.7 {
		out = append(out, "Unusual transaction patterns detected that diverge from typical wallet behavior.")
	}
	if m.Regularity < 0.3 && m.TransactionFrequency > 10 {
		out = append(out, "Irregular transaction timing with bursts of high activity.")
	}
	if m.ValueDistribution < 0.2 && m.TotalTransactions > 10 {
		out = append(out, "Unusual concentration of transaction values in narrow ranges.")
	}
	if m.InteractionDiversity > 0.9 && m.ValueDistribution < 0.3 && m.TotalTransactions > 20 {
		out = append(out, "High number of unique counterparties with similar transaction values could indicate mixing behavior.")
	}
	return out
}

// Recommendations suggests how the wallet could improve its reputation.
func Recommendations(m Metrics, f Factors) []string {
	out := []string{}
	if m.TotalTransactions == 0 {
		return out
	}
	if m.ConsistencyScore < 0.5 {
		out = append(out, "Maintain more consistent blockchain activity across time periods.")
	}

	var low []string
	if f.Get(FactorDeFiParticipation) < 50 {
		low = append(low, "DeFi")
	}
	if f.Get(FactorNFTActivity) < 50 {
		low = append(low, "NFT")
	}
	if f.Get(FactorDAOGovernance) < 50 {
		low = append(low, "DAO governance")
	}
	if len(low) > 0 {
		out = append(out, fmt.Sprintf("Diversify participation into %s to build a more rounded reputation profile.", strings.Join(low, ", ")))
	}

	if f.Get(FactorTransactionHistory) < 70 {
		out = append(out, "Increase overall transaction volume and frequency to build a stronger history.")
	}
	if f.Get(FactorRiskAssessment) < 70 {
		out = append(out, "Establish more regular transaction patterns and avoid rapid transfers of funds.")
	}
	if f.Get(FactorNetworkPosition) < 60 {
		out = append(out, "Develop more balanced transaction relationships with repeating counterparties.")
	}
	return out
}

// PredictGrowth forecasts the score gain over the next three periods. The
// forecast shrinks as currentScore nears the canonical cap and never exceeds
// the remaining headroom.
func PredictGrowth(m Metrics, currentScore int) int {
	if m.TotalTransactions == 0 {
		return 0
	}
	growth := 0
	switch {
	case m.TransactionGrowthRate > 0.5:
		growth += 50
	case m.TransactionGrowthRate > 0.3:
		growth += 30
	case m.TransactionGrowthRate > 0:
		growth += 10
	}

	switch {
	case m.ConsistencyScore > 0.7:
		growth += 20
	case m.ConsistencyScore > 0.4:
		growth += 10
	}

	switch {
	case m.RiskScore < 0.3:
		growth += 20
	case m.RiskScore < 0.6:
		growth += 5
	default:
		growth -= 10
	}

	for _, n := range []int{m.DeFiInteractions, m.NFTTransactions, m.DAOVotes} {
		if n > 0 {
			growth += 10
		}
	}

	headroom := max(0, ScaleCanonical-currentScore)
	ceiling := math.Sqrt(float64(headroom) / ScaleCanonical)
	predicted := int(math.Round(float64(growth) * ceiling))
	return max(0, min(headroom, predicted))
}

// Confidence rates how much data backs the analysis, in [0,100].
func Confidence(m Metrics) int {
	if m.TotalTransactions == 0 {
		return 0
	}
	txConfidence := math.Min(1, float64(m.TotalTransactions)/100)
	timeConfidence := math.Min(1, float64(m.LongevityMonths)/12)
	return int(math.Round((txConfidence*0.7 + timeConfidence*0.3) * 100))
}
