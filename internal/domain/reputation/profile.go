package reputation

import (
	"fmt"
	"math"
	"strings"
)

// Variant identifies an analysis pipeline.
type Variant string

// Pipeline variants.
const (
	VariantBasic    Variant = "basic"
	VariantAdvanced Variant = "advanced"
)

// ParseVariant maps a name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantBasic:
		return VariantBasic, nil
	case VariantAdvanced:
		return VariantAdvanced, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// RiskAveraging selects how pattern scores are averaged into the risk score.
type RiskAveraging string

// Risk averaging modes.
const (
	// RiskAveragingActive divides by the number of patterns that fired (min 1).
	RiskAveragingActive RiskAveraging = "active"
	// RiskAveragingFixed always divides by the size of the pattern group.
	RiskAveragingFixed RiskAveraging = "fixed"
)

// ParseRiskAveraging maps a name to a RiskAveraging mode. Empty means active.
func ParseRiskAveraging(s string) (RiskAveraging, error) {
	switch RiskAveraging(strings.ToLower(strings.TrimSpace(s))) {
	case "", RiskAveragingActive:
		return RiskAveragingActive, nil
	case RiskAveragingFixed:
		return RiskAveragingFixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskAveraging, s)
	}
}

// Output scales.
const (
	ScaleBasic     = 100
	ScaleCanonical = 1000
)

// Weight assigns a factor its share of the total and a display label.
type Weight struct {
	Factor FactorName
	Label  string
	Weight float64
}

// Profile is the immutable configuration of one engine pipeline.
type Profile struct {
	Variant     Variant
	Categorizer Categorizer
	// Weights lists the factor set in display order.
	Weights []Weight
	// Scale is the upper bound of TotalScore: 100 or 1000.
	Scale int
	// Extended computes pattern, network and temporal metrics.
	Extended bool
	// Narrative adds confidence, breakdown, insights and forecasts.
	Narrative     bool
	RiskAveraging RiskAveraging
}

// BasicProfile is the four-factor pipeline scored on [0,100].
func BasicProfile() Profile {
	return Profile{
		Variant:     VariantBasic,
		Categorizer: BasicCategorizer(),
		Weights: []Weight{
			{Factor: FactorTransactionHistory, Label: "Transaction History", Weight: 0.35},
			{Factor: FactorDeFiParticipation, Label: "DeFi Participation", Weight: 0.25},
			{Factor: FactorDAOGovernance, Label: "DAO Governance", Weight: 0.2},
			{Factor: FactorNFTActivity, Label: "NFT Activity", Weight: 0.2},
		},
		Scale:         ScaleBasic,
		RiskAveraging: RiskAveragingActive,
	}
}

// AdvancedProfile is the eleven-factor pipeline scored on [0,1000].
func AdvancedProfile() Profile {
	return Profile{
		Variant:     VariantAdvanced,
		Categorizer: AdvancedCategorizer(),
		Weights: []Weight{
			{Factor: FactorTransactionHistory, Label: "Transaction History", Weight: 0.20},
			{Factor: FactorDeFiParticipation, Label: "DeFi Participation", Weight: 0.15},
			{Factor: FactorDAOGovernance, Label: "DAO Governance", Weight: 0.15},
			{Factor: FactorNFTActivity, Label: "NFT Activity", Weight: 0.10},
			{Factor: FactorConsistency, Label: "Consistency", Weight: 0.10},
			{Factor: FactorDiversity, Label: "Transaction Diversity", Weight: 0.05},
			{Factor: FactorGrowth, Label: "Account Growth", Weight: 0.05},
			{Factor: FactorRiskAssessment, Label: "Risk Assessment", Weight: 0.08},
			{Factor: FactorValueDistribution, Label: "Value Distribution", Weight: 0.05},
			{Factor: FactorNetworkPosition, Label: "Network Position", Weight: 0.05},
			{Factor: FactorTemporalBehavior, Label: "Temporal Behavior", Weight: 0.02},
		},
		Scale:         ScaleCanonical,
		Extended:      true,
		Narrative:     true,
		RiskAveraging: RiskAveragingActive,
	}
}

// ProfileFor returns the built-in profile of v.
func ProfileFor(v Variant) (Profile, error) {
	switch v {
	case VariantBasic:
		return BasicProfile(), nil
	case VariantAdvanced:
		return AdvancedProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Validate checks that the weights sum to 1 over known, distinct factors
// and that the scale is supported.
func (p Profile) Validate() error {
	if len(p.Weights) == 0 {
		return fmt.Errorf("%w: no factors", ErrInvalidProfile)
	}
	if p.Scale != ScaleBasic && p.Scale != ScaleCanonical {
		return fmt.Errorf("%w: unsupported scale %d", ErrInvalidProfile, p.Scale)
	}
	if _, err := ParseRiskAveraging(string(p.RiskAveraging)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	seen := make(map[FactorName]bool, len(p.Weights))
	var sum float64
	for _, w := range p.Weights {
		if !w.Factor.Known() {
			return fmt.Errorf("%w: unknown factor %q", ErrInvalidProfile, w.Factor)
		}
		if seen[w.Factor] {
			return fmt.Errorf("%w: duplicate factor %q", ErrInvalidProfile, w.Factor)
		}
		if w.Weight < 0 {
			return fmt.Errorf("%w: negative weight for %q", ErrInvalidProfile, w.Factor)
		}
		seen[w.Factor] = true
		sum += w.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %.4f", ErrInvalidProfile, sum)
	}
	return nil
}

// multiplier converts a weighted factor sum into the profile's scale.
func (p Profile) multiplier() float64 {
	return float64(p.Scale) / 100
}
