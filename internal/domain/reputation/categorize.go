package reputation

import (
	"strings"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
)

// Category is a semantic class a transaction can belong to.
type Category string

// Transaction categories.
const (
	CategoryDeFi     Category = "defi"
	CategoryNFT      Category = "nft"
	CategoryDAO      Category = "dao"
	CategorySecurity Category = "security"
	CategoryGeneral  Category = "general"
)

// Confidence curve for graded matching: any single hit yields the floor,
// full keyword coverage approaches 1.
const (
	confidenceFloor = 0.3
	confidenceSpan  = 0.7
)

// CategoryResult is one category membership with its confidence in [0,1].
type CategoryResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// CategoryRule binds a category to the lower-case keywords that signal it.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// Categorizer matches transactions against a keyword rule table.
// The zero value matches nothing and classifies every transaction as general.
type Categorizer struct {
	Rules []CategoryRule
	// Graded scores confidence by keyword coverage; otherwise membership is 1.0.
	Graded bool
	// ScanNote also searches the transaction note.
	ScanNote bool
}

// BasicRules is the keyword table of the basic pipeline.
func BasicRules() []CategoryRule {
	return []CategoryRule{
		{Category: CategoryDeFi, Keywords: []string{"swap", "liquidity", "yield", "staking", "lending", "borrowing", "provision"}},
		{Category: CategoryNFT, Keywords: []string{"nft", "collectible", "art", "purchase", "mint"}},
		{Category: CategoryDAO, Keywords: []string{"vote", "proposal", "governance", "dao"}},
	}
}

// AdvancedRules is the keyword table of the advanced pipeline.
func AdvancedRules() []CategoryRule {
	return []CategoryRule{
		{Category: CategoryDeFi, Keywords: []string{
			"swap", "liquidity", "yield", "staking", "lending", "borrowing", "provision",
			"farm", "pool", "claim", "reward", "interest", "apy", "apr",
		}},
		{Category: CategoryNFT, Keywords: []string{
			"nft", "collectible", "art", "purchase", "mint",
			"token", "auction", "royalty", "creator", "artwork", "unique", "collection",
		}},
		{Category: CategoryDAO, Keywords: []string{
			"vote", "proposal", "governance", "dao",
			"delegate", "election", "ballot", "community", "decision", "forum", "member", "quorum",
		}},
		{Category: CategorySecurity, Keywords: []string{
			"multisig", "secure", "cold storage", "vault", "escrow",
			"time-lock", "backup", "recover", "hardware", "threshold",
		}},
	}
}

// BasicCategorizer classifies by type only with boolean membership.
func BasicCategorizer() Categorizer {
	return Categorizer{Rules: BasicRules()}
}

// AdvancedCategorizer classifies by type and note with graded confidence.
func AdvancedCategorizer() Categorizer {
	return Categorizer{Rules: AdvancedRules(), Graded: true, ScanNote: true}
}

// Categorize returns every category tx matches. A transaction matching no
// rule yields a single general result at confidence 1.
func (c Categorizer) Categorize(tx model.Transaction) []CategoryResult {
	typ := strings.ToLower(tx.Type)
	note := ""
	if c.ScanNote {
		note = strings.ToLower(tx.Note)
	}

	var out []CategoryResult
	for _, rule := range c.Rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		hits := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(typ, kw) || (note != "" && strings.Contains(note, kw)) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		confidence := 1.0
		if c.Graded {
			confidence = min(confidenceFloor+float64(hits)/float64(len(rule.Keywords))*confidenceSpan, 1.0)
		}
		out = append(out, CategoryResult{Category: rule.Category, Confidence: confidence})
	}

	if len(out) == 0 {
		return []CategoryResult{{Category: CategoryGeneral, Confidence: 1.0}}
	}
	return out
}

// tally sums category confidences over txs, ignoring general.
func (c Categorizer) tally(txs []model.Transaction) map[Category]float64 {
	sums := make(map[Category]float64)
	for _, tx := range txs {
		for _, r := range c.Categorize(tx) {
			if r.Category == CategoryGeneral {
				continue
			}
			sums[r.Category] += r.Confidence
		}
	}
	return sums
}
