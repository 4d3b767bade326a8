// Package benefits maps a canonical reputation score to the perks it unlocks.
package benefits

import (
	"fmt"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
)

// Benefit is a perk gated on a minimum canonical score.
type Benefit struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredScore int    `json:"requiredScore"`
	Unlocked      bool   `json:"unlocked"`
	Remaining     int    `json:"remaining"`
}

type perk struct {
	name        string
	description string
	required    int
}

var catalogue = []perk{
	{"DeFi Lending Discounts", "Up to 15% lower interest rates with partner lenders", 750},
	{"DAO Governance Boost", "1.2x voting power in participating DAOs", 700},
	{"High-Value NFT Access", "Access to exclusive NFT drops", 850},
	{"Verified Marketplace Seller", "Verified badge on partner marketplaces", 900},
}

// Tier is a coarse reputation label.
type Tier string

// Tiers in ascending order.
const (
	TierNewcomer    Tier = "Newcomer"
	TierEmerging    Tier = "Emerging"
	TierEstablished Tier = "Established"
	TierTrusted     Tier = "Trusted"
	TierElite       Tier = "Elite"
)

// For returns every benefit with its unlock state at score. Scores are
// clamped to [0,1000].
func For(score int) []Benefit {
	score = clamp(score)
	out := make([]Benefit, len(catalogue))
	for i, p := range catalogue {
		b := Benefit{
			Name:          p.name,
			Description:   p.description,
			RequiredScore: p.required,
			Unlocked:      score >= p.required,
		}
		if !b.Unlocked {
			b.Remaining = p.required - score
			b.Description = fmt.Sprintf("Need %d+ score to unlock (currently %d)", p.required, score)
		}
		out[i] = b
	}
	return out
}

// TierFor labels score.
func TierFor(score int) Tier {
	switch score = clamp(score); {
	case score < 300:
		return TierNewcomer
	case score < 500:
		return TierEmerging
	case score < 700:
		return TierEstablished
	case score < 850:
		return TierTrusted
	default:
		return TierElite
	}
}

// MaxNFTLevel is the highest soulbound NFT level.
const MaxNFTLevel = 5

// Level is the 1-based position of t among the tiers, and the highest NFT
// level a wallet in t may hold.
func (t Tier) Level() int {
	switch t {
	case TierEmerging:
		return 2
	case TierEstablished:
		return 3
	case TierTrusted:
		return 4
	case TierElite:
		return MaxNFTLevel
	default:
		return 1
	}
}

// Summary is the benefits view of a wallet.
type Summary struct {
	Wallet   string    `json:"walletAddress"`
	Score    int       `json:"score"`
	Tier     Tier      `json:"tier"`
	Benefits []Benefit `json:"benefits"`
}

// Summarize builds the Summary of wallet at score.
func Summarize(wallet string, score int) Summary {
	return Summary{Wallet: wallet, Score: clamp(score), Tier: TierFor(score), Benefits: For(score)}
}

func clamp(score int) int {
	return max(0, min(reputation.ScaleCanonical, score))
}
