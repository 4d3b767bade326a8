package benefits

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func unlocked(bs []Benefit) map[string]bool {
	m := make(map[string]bool, len(bs))
	for _, b := range bs {
		m[b.Name] = b.Unlocked
	}
	return m
}

func TestFor(t *testing.T) {
	convey.Convey("Benefits unlock at their thresholds", t, func() {
		convey.So(For(0), convey.ShouldHaveLength, 4)

		at699 := unlocked(For(699))
		convey.So(at699["DAO Governance Boost"], convey.ShouldBeFalse)

		at700 := unlocked(For(700))
		convey.So(at700["DAO Governance Boost"], convey.ShouldBeTrue)
		convey.So(at700["DeFi Lending Discounts"], convey.ShouldBeFalse)

		at785 := unlocked(For(785))
		convey.So(at785["DeFi Lending Discounts"], convey.ShouldBeTrue)
		convey.So(at785["High-Value NFT Access"], convey.ShouldBeFalse)

		for _, b := range For(1000) {
			convey.So(b.Unlocked, convey.ShouldBeTrue)
			convey.So(b.Remaining, convey.ShouldEqual, 0)
		}
	})

	convey.Convey("Locked benefits report the remaining points", t, func() {
		for _, b := range For(785) {
			if b.Name == "Verified Marketplace Seller" {
				convey.So(b.Remaining, convey.ShouldEqual, 115)
				convey.So(b.Description, convey.ShouldEqual, "Need 900+ score to unlock (currently 785)")
			}
		}
	})

	convey.Convey("Out of range scores are clamped", t, func() {
		for _, b := range For(-50) {
			convey.So(b.Remaining, convey.ShouldEqual, b.RequiredScore)
		}
		convey.So(Summarize("W", 5000).Score, convey.ShouldEqual, 1000)
	})
}

func TestTierFor(t *testing.T) {
	convey.Convey("Tiers follow the score bands", t, func() {
		cases := []struct {
			score int
			want  Tier
		}{
			{0, TierNewcomer},
			{299, TierNewcomer},
			{300, TierEmerging},
			{499, TierEmerging},
			{500, TierEstablished},
			{699, TierEstablished},
			{700, TierTrusted},
			{849, TierTrusted},
			{850, TierElite},
			{1000, TierElite},
		}
		for _, c := range cases {
			convey.So(TierFor(c.score), convey.ShouldEqual, c.want)
		}
	})

	convey.Convey("Summarize combines tier and benefits", t, func() {
		s := Summarize("ALGO", 785)
		convey.So(s.Tier, convey.ShouldEqual, TierTrusted)
		convey.So(s.Benefits, convey.ShouldHaveLength, 4)
		convey.So(s.Wallet, convey.ShouldEqual, "ALGO")
	})
}

func TestTierLevel(t *testing.T) {
	convey.Convey("Tier levels rise with the tier and cap NFT levels", t, func() {
		convey.So(TierNewcomer.Level(), convey.ShouldEqual, 1)
		convey.So(TierEmerging.Level(), convey.ShouldEqual, 2)
		convey.So(TierEstablished.Level(), convey.ShouldEqual, 3)
		convey.So(TierTrusted.Level(), convey.ShouldEqual, 4)
		convey.So(TierElite.Level(), convey.ShouldEqual, MaxNFTLevel)
		convey.So(Tier("unknown").Level(), convey.ShouldEqual, 1)
		convey.So(TierFor(785).Level(), convey.ShouldEqual, 4)
	})
}
