package reputation

import "math"

// floorEpsilon absorbs binary rounding noise before flooring.
const floorEpsilon = 1e-9

// Aggregate combines factors under p's weights into the total score and a
// per-factor contribution breakdown keyed by display label.
func Aggregate(f Factors, p Profile) (int, map[string]int) {
	mult := p.multiplier()
	var weighted float64
	breakdown := make(map[string]int, len(p.Weights))
	for _, w := range p.Weights {
		score := float64(f.Get(w.Factor))
		weighted += score * w.Weight
		breakdown[w.Label] = int(math.Round(score * w.Weight * mult))
	}
	total := int(math.Floor(weighted*mult + floorEpsilon))
	return max(0, min(p.Scale, total)), breakdown
}
