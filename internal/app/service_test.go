package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/repository"
	service "github.com/Danish0703/algorand-reputation-system/internal/app"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/benefits"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

func init() {
	logger.Set(logger.NewNop())
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithStore(feed.NewMemoryStore()),
		service.WithClock(clock),
		service.WithWorkerCount(2),
		service.WithQueueSize(100),
	}
	return service.New(append(base, opts...)...)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func at(months int) *time.Time {
	t := fixedNow.AddDate(0, -months, 0)
	return &t
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("Operations report ErrNotStarted", func() {
			_, err := svc.Analyze(ctx, "W")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.TopN(ctx, 5)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.RecordTransaction(ctx, "W", types.TransactionInput{Type: "Swap", Amount: "1"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Start and Stop are idempotent", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["store"], ShouldEqual, "external")
			So(svc.Hub(), ShouldNotBeNil)
			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given an unknown risk averaging mode", t, func() {
		svc := newService(service.WithRiskAveraging("bogus"))

		Convey("Start fails and the service stays stopped", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, reputation.ErrInvalidProfile), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_SeededData(t *testing.T) {
	Convey("Given a started service with demo data", t, func() {
		ctx := context.Background()
		svc := newService(service.WithSeedDemoData(true))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("The demo record is served", func() {
			rec, err := svc.Reputation(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(rec.Score, ShouldEqual, 785)

			factors, err := svc.Factors(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(factors, ShouldHaveLength, 4)

			txs, err := svc.Transactions(ctx, feed.DemoWallet, 2)
			So(err, ShouldBeNil)
			So(txs, ShouldHaveLength, 2)
			So(txs[0].TxID, ShouldEqual, "6Z3QR...9M7P")
		})

		Convey("The leaderboard is primed from stored records", func() {
			rank, err := svc.Rank(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(rank.Rank, ShouldEqual, 1)
			So(rank.Score, ShouldEqual, 785)
			So(rank.Total, ShouldEqual, 1)
		})

		Convey("Benefits follow the stored score", func() {
			sum, err := svc.Benefits(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(sum.Tier, ShouldEqual, benefits.TierTrusted)
			So(sum.Benefits, ShouldHaveLength, 4)
		})

		Convey("Unknown wallets are not found", func() {
			_, err := svc.Reputation(ctx, "nobody")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			_, err = svc.Rank(ctx, "nobody")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			_, err = svc.Benefits(ctx, "nobody")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("Invalid limits are rejected", func() {
			_, err := svc.TopN(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestService_NFTs(t *testing.T) {
	Convey("Given a started service with demo data", t, func() {
		ctx := context.Background()
		var draws []int64
		source := func(n int64) int64 {
			if len(draws) == 0 {
				return 0
			}
			v := draws[0]
			draws = draws[1:]
			return v % n
		}
		svc := newService(service.WithSeedDemoData(true), service.WithAssetIDSource(source))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		input := types.NFTInput{Name: "Governance Veteran", ImageURL: "https://example.com/gov.png", Level: 4}

		Convey("The seeded badges are listed oldest first", func() {
			nfts, err := svc.NFTs(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(nfts, ShouldHaveLength, 2)
			So(nfts[0].Name, ShouldEqual, "DAO Contributor")
		})

		Convey("A trusted wallet mints up to its tier level", func() {
			draws = []int64{42}
			res, err := svc.MintNFT(ctx, feed.DemoWallet, input)
			So(err, ShouldBeNil)
			So(res.AssetID, ShouldEqual, int64(100_042))
			So(res.NFT.IssueDate.Equal(fixedNow), ShouldBeTrue)
			So(res.Metadata.Properties.Soulbound, ShouldBeTrue)

			nfts, _ := svc.NFTs(ctx, feed.DemoWallet)
			So(nfts, ShouldHaveLength, 3)
			So(nfts[2].AssetID, ShouldEqual, res.AssetID)

			input.Level = 5
			_, err = svc.MintNFT(ctx, feed.DemoWallet, input)
			So(errors.Is(err, service.ErrLevelLocked), ShouldBeTrue)
		})

		Convey("Unscored wallets only mint the first level", func() {
			input.Level = 1
			_, err := svc.MintNFT(ctx, "NEWCOMER", input)
			So(err, ShouldBeNil)

			input.Level = 2
			_, err = svc.MintNFT(ctx, "NEWCOMER", input)
			So(errors.Is(err, service.ErrLevelLocked), ShouldBeTrue)
		})

		Convey("A taken asset ID is redrawn", func() {
			input.Level = 1
			draws = []int64{7}
			first, err := svc.MintNFT(ctx, "W1", input)
			So(err, ShouldBeNil)

			draws = []int64{7, 7, 8}
			second, err := svc.MintNFT(ctx, "W2", input)
			So(err, ShouldBeNil)
			So(first.AssetID, ShouldEqual, int64(100_007))
			So(second.AssetID, ShouldEqual, int64(100_008))
		})

		Convey("Minting gives up when every draw collides", func() {
			input.Level = 1
			_, err := svc.MintNFT(ctx, "W1", input)
			So(err, ShouldBeNil)
			_, err = svc.MintNFT(ctx, "W2", input)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, service.ErrLevelLocked), ShouldBeFalse)
		})

		Convey("Invalid requests are rejected", func() {
			_, err := svc.MintNFT(ctx, feed.DemoWallet, types.NFTInput{Name: "x", Level: 1})
			So(errors.Is(err, types.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a started service with demo data", t, func() {
		ctx := context.Background()
		svc := newService(service.WithSeedDemoData(true))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Basic analysis persists the canonical score and four factors", func() {
			resp, err := svc.Analyze(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(resp.Analysis.Variant, ShouldEqual, reputation.VariantBasic)
			So(resp.Score, ShouldEqual, resp.Analysis.CanonicalScore())

			rec, err := svc.Reputation(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(rec.Score, ShouldEqual, resp.Score)
			So(rec.Variant, ShouldEqual, "basic")
			So(rec.LastUpdated, ShouldEqual, fixedNow)
			So(rec.Longevity, ShouldEqual, resp.Analysis.Metrics.LongevityMonths)

			factors, err := svc.Factors(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(factors, ShouldHaveLength, 4)
			So(factors[0].Name, ShouldEqual, "Transaction History")
			So(factors[0].MaxScore, ShouldEqual, 100)

			rank, err := svc.Rank(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(rank.Score, ShouldEqual, resp.Score)
		})

		Convey("Advanced analysis persists eleven factors and an explanation", func() {
			resp, err := svc.AnalyzeAdvanced(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(resp.Analysis.Explanation, ShouldNotBeNil)

			factors, err := svc.Factors(ctx, feed.DemoWallet)
			So(err, ShouldBeNil)
			So(factors, ShouldHaveLength, 11)
			So(factors[10].Name, ShouldEqual, "Temporal Behavior")
		})

		Convey("A wallet without history scores zero", func() {
			resp, err := svc.Analyze(ctx, "EMPTY")
			So(err, ShouldBeNil)
			So(resp.Score, ShouldEqual, 0)

			top, err := svc.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 2)
			So(top[0].Wallet, ShouldEqual, feed.DemoWallet)
			So(top[1].Wallet, ShouldEqual, "EMPTY")
		})
	})
}

func TestService_RecordTransaction(t *testing.T) {
	Convey("Given a started empty service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("A transaction is stored, awarded points and re-analyzed", func() {
			res, err := svc.RecordTransaction(ctx, "W1", types.TransactionInput{
				Type: "Liquidity Provisioning", Amount: "+285 ALGO", Date: at(6),
			})
			So(err, ShouldBeNil)
			So(res.TxID, ShouldNotBeEmpty)
			So(res.Duplicate, ShouldBeFalse)
			So(res.Queued, ShouldBeTrue)
			So(res.ReputationPoints, ShouldEqual, 8)

			So(eventually(func() bool {
				rec, err := svc.Reputation(ctx, "W1")
				return err == nil && rec.Variant == "advanced"
			}), ShouldBeTrue)

			txs, err := svc.Transactions(ctx, "W1", 10)
			So(err, ShouldBeNil)
			So(txs, ShouldHaveLength, 1)
			So(txs[0].Date, ShouldEqual, *at(6))
		})

		Convey("A repeated transaction ID is a duplicate", func() {
			in := types.TransactionInput{TxID: "tx-1", Type: "DAO Voting", Amount: "0.001 ALGO"}
			first, err := svc.RecordTransaction(ctx, "W1", in)
			So(err, ShouldBeNil)
			So(first.Duplicate, ShouldBeFalse)
			So(first.ReputationPoints, ShouldEqual, 5)

			second, err := svc.RecordTransaction(ctx, "W1", in)
			So(err, ShouldBeNil)
			So(second.Duplicate, ShouldBeTrue)
			So(second.Queued, ShouldBeFalse)

			txs, err := svc.Transactions(ctx, "W1", 0)
			So(err, ShouldBeNil)
			So(txs, ShouldHaveLength, 1)
		})

		Convey("Invalid input is rejected", func() {
			_, err := svc.RecordTransaction(ctx, "W1", types.TransactionInput{Amount: "1"})
			So(errors.Is(err, types.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

// gatedStore blocks history reads until the gate is closed.
type gatedStore struct {
	*feed.MemoryStore
	gate chan struct{}
}

func (g *gatedStore) WalletTransactions(ctx context.Context, wallet string) ([]model.Transaction, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.MemoryStore.WalletTransactions(ctx, wallet)
}

func TestService_Backpressure(t *testing.T) {
	Convey("Given a service whose single worker is stalled", t, func() {
		ctx := context.Background()
		store := &gatedStore{MemoryStore: feed.NewMemoryStore(), gate: make(chan struct{})}
		svc := service.New(
			service.WithStore(store),
			service.WithClock(clock),
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("recording eventually reports ErrBackpressure", func() {
			var got error
			for i := 0; i < 10 && got == nil; i++ {
				_, got = svc.RecordTransaction(ctx, "W1", types.TransactionInput{Type: "Swap", Amount: "1"})
				time.Sleep(10 * time.Millisecond)
			}
			So(errors.Is(got, service.ErrBackpressure), ShouldBeTrue)
		})

		close(store.gate)
		svc.Stop()
	})
}
