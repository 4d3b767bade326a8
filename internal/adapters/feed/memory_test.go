package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryStore_Transactions(t *testing.T) {
	Convey("Given a memory store with a wallet history", t, func() {
		ctx := context.Background()
		st := feed.NewMemoryStore()
		for i, d := range []int{3, 1, 7, 5} {
			err := st.AddTransaction(ctx, model.LedgerEntry{
				TxID:         string(rune('a' + i)),
				Wallet:       "W1",
				Type:         "Swap",
				Amount:       "+10 ALGO",
				Date:         day(d),
				Counterparty: "POOL",
			})
			So(err, ShouldBeNil)
		}

		Convey("When listing with a limit", func() {
			got, err := st.Transactions(ctx, "W1", 2)

			Convey("Then the newest entries come first", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Date, ShouldEqual, day(7))
				So(got[1].Date, ShouldEqual, day(5))
			})
		})

		Convey("When listing without a limit", func() {
			got, _ := st.Transactions(ctx, "W1", 0)
			So(got, ShouldHaveLength, 4)
		})

		Convey("When a transaction ID repeats", func() {
			err := st.AddTransaction(ctx, model.LedgerEntry{TxID: "a", Wallet: "W2"})

			Convey("Then it is rejected as a duplicate", func() {
				So(errors.Is(err, feed.ErrDuplicate), ShouldBeTrue)
				got, _ := st.Transactions(ctx, "W2", 10)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the engine asks for the history", func() {
			txs, err := st.WalletTransactions(ctx, "W1")

			Convey("Then entries convert to engine transactions", func() {
				So(err, ShouldBeNil)
				So(txs, ShouldHaveLength, 4)
				So(txs[0].Sender, ShouldEqual, "W1")
				So(txs[0].Recipient, ShouldEqual, "POOL")
				So(txs[0].Amount, ShouldEqual, 10)
			})
		})

		Convey("When the wallet is unknown", func() {
			txs, err := st.WalletTransactions(ctx, "nobody")
			So(err, ShouldBeNil)
			So(txs, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore_Records(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		st := feed.NewMemoryStore()

		Convey("Unknown reputation is not found", func() {
			_, err := st.Reputation(ctx, "W1")
			So(errors.Is(err, feed.ErrNotFound), ShouldBeTrue)
		})

		Convey("Saved reputation replaces the previous record", func() {
			So(st.SaveReputation(ctx, feed.Record{Wallet: "W1", Score: 300}), ShouldBeNil)
			So(st.SaveReputation(ctx, feed.Record{Wallet: "W1", Score: 650}), ShouldBeNil)
			r, err := st.Reputation(ctx, "W1")
			So(err, ShouldBeNil)
			So(r.Score, ShouldEqual, 650)

			wallets, _ := st.Wallets(ctx)
			So(wallets, ShouldResemble, []string{"W1"})
		})

		Convey("Saved factors replace the whole set and carry the wallet", func() {
			So(st.SaveFactors(ctx, "W1", []feed.FactorRecord{{Name: "A", Score: 1, MaxScore: 100}, {Name: "B", Score: 2, MaxScore: 100}}), ShouldBeNil)
			So(st.SaveFactors(ctx, "W1", []feed.FactorRecord{{Name: "C", Score: 3, MaxScore: 100}}), ShouldBeNil)
			got, _ := st.Factors(ctx, "W1")
			So(got, ShouldResemble, []feed.FactorRecord{{Wallet: "W1", Name: "C", Score: 3, MaxScore: 100}})

			none, _ := st.Factors(ctx, "W2")
			So(none, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore_NFTs(t *testing.T) {
	Convey("Given a memory store with issued NFTs", t, func() {
		ctx := context.Background()
		st := feed.NewMemoryStore()
		So(st.SaveNFT(ctx, model.NFT{Wallet: "W1", AssetID: 2, Name: "Later", Level: 1, IssueDate: day(9)}), ShouldBeNil)
		So(st.SaveNFT(ctx, model.NFT{Wallet: "W1", AssetID: 1, Name: "Earlier", Level: 2, IssueDate: day(2)}), ShouldBeNil)

		Convey("They list oldest first", func() {
			got, err := st.NFTs(ctx, "W1")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Name, ShouldEqual, "Earlier")
			So(got[1].Name, ShouldEqual, "Later")
		})

		Convey("A repeated asset ID is rejected for any wallet", func() {
			err := st.SaveNFT(ctx, model.NFT{Wallet: "W2", AssetID: 1, Name: "Copy", Level: 1})
			So(errors.Is(err, feed.ErrDuplicate), ShouldBeTrue)
			got, _ := st.NFTs(ctx, "W2")
			So(got, ShouldBeEmpty)
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		st := feed.NewMemoryStore()
		now := day(10)

		Convey("When seeded twice", func() {
			So(feed.Seed(ctx, st, now), ShouldBeNil)
			So(feed.Seed(ctx, st, now.Add(time.Hour)), ShouldBeNil)

			Convey("Then the demo wallet exists once", func() {
				r, err := st.Reputation(ctx, feed.DemoWallet)
				So(err, ShouldBeNil)
				So(r.Score, ShouldEqual, 785)
				So(r.LastUpdated, ShouldEqual, now)

				txs, _ := st.Transactions(ctx, feed.DemoWallet, 0)
				So(txs, ShouldHaveLength, 3)
				So(txs[0].Type, ShouldEqual, "Liquidity Provisioning")

				factors, _ := st.Factors(ctx, feed.DemoWallet)
				So(factors, ShouldHaveLength, 4)

				nfts, _ := st.NFTs(ctx, feed.DemoWallet)
				So(nfts, ShouldHaveLength, 2)
				So(nfts[0].Name, ShouldEqual, "DAO Contributor")
				So(nfts[1].AssetID, ShouldEqual, int64(12345))
			})
		})
	})
}
