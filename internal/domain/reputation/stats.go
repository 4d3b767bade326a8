package reputation

import (
	"math"
	"slices"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// monthDuration is the fixed month length used for longevity.
const monthDuration = 30 * 24 * time.Hour

// sortByTime returns a copy of txs ordered by timestamp ascending.
// Ties keep their input order.
func sortByTime(txs []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// intervals returns consecutive gaps in seconds between sorted transactions.
func intervals(sorted []model.Transaction) []float64 {
	if len(sorted) < 2 {
		return nil
	}
	out := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		out = append(out, sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Seconds())
	}
	return out
}

// meanStdDev returns the mean and population standard deviation of xs.
func meanStdDev(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, math.Sqrt(variance)
}

// coefficientOfVariation returns std/mean, and false when the mean is not positive.
func coefficientOfVariation(xs []float64) (float64, bool) {
	mean, std := meanStdDev(xs)
	if len(xs) == 0 || mean <= 0 {
		return 0, false
	}
	return std / mean, true
}

// monthIndex maps t to year*12+month in UTC.
func monthIndex(t time.Time) int {
	t = t.UTC()
	return t.Year()*12 + int(t.Month()) - 1
}

// monthlyActivity counts transactions per UTC calendar month and returns the
// counts together with the sorted month keys.
func monthlyActivity(txs []model.Transaction) (map[int]int, []int) {
	counts := make(map[int]int)
	for _, tx := range txs {
		counts[monthIndex(tx.Timestamp)]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return counts, keys
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
