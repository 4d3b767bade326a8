package reputation

import (
	"math"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// Target counterparty mix for a healthy network shape.
const (
	targetUniqueRatio      = 0.3
	targetRepeatRatio      = 0.7
	minNetworkTransactions = 3
)

// Network summarises counterparty relationships.
type Network struct {
	CentralityScore    float64 `json:"centralityScore"`
	UniqueAddresses    int     `json:"uniqueAddresses"`
	RepeatInteractions int     `json:"repeatInteractions"`
}

// AnalyzeNetwork computes counterparty diversity over txs. Fewer than three
// transactions yield the zero Network.
func AnalyzeNetwork(txs []model.Transaction) Network {
	if len(txs) < minNetworkTransactions {
		return Network{}
	}
	counts := make(map[string]int)
	for _, tx := range txs {
		if tx.Recipient != "" {
			counts[tx.Recipient]++
		}
	}
	repeat := 0
	for _, c := range counts {
		if c > 1 {
			repeat += c - 1
		}
	}
	total := float64(len(txs))
	uniqueRatio := float64(len(counts)) / total
	repeatRatio := float64(repeat) / total
	centrality := 1 - math.Abs(targetUniqueRatio-uniqueRatio) - math.Abs(targetRepeatRatio-repeatRatio)
	return Network{
		CentralityScore:    math.Max(0, centrality),
		UniqueAddresses:    len(counts),
		RepeatInteractions: repeat,
	}
}
