package types_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

func TestTransactionInputValidate(t *testing.T) {
	Convey("Given a transaction input", t, func() {
		in := types.TransactionInput{Type: "DAO Voting", Amount: "0.001 ALGO"}

		Convey("A complete input is valid", func() {
			So(in.Validate(), ShouldBeNil)
		})

		Convey("Invalid inputs wrap ErrInvalidInput", func() {
			mutations := []func(*types.TransactionInput){
				func(i *types.TransactionInput) { i.Type = "  " },
				func(i *types.TransactionInput) { i.Type = strings.Repeat("x", types.MaxTypeLength+1) },
				func(i *types.TransactionInput) { i.TxID = strings.Repeat("x", types.MaxTxIDLength+1) },
				func(i *types.TransactionInput) { i.Note = strings.Repeat("x", types.MaxNoteLength+1) },
				func(i *types.TransactionInput) { i.Amount = "" },
				func(i *types.TransactionInput) { i.Amount = "+ ALGO" },
			}
			for _, mutate := range mutations {
				bad := in
				mutate(&bad)
				So(errors.Is(bad.Validate(), types.ErrInvalidInput), ShouldBeTrue)
			}
		})
	})
}

func TestTransactionInputLedgerEntry(t *testing.T) {
	Convey("Given an input converted to a ledger entry", t, func() {
		now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

		Convey("A missing date defaults to now", func() {
			e := types.TransactionInput{Type: " Swap ", Amount: "-4 ALGO"}.LedgerEntry("W", now)
			So(e.Date, ShouldEqual, now)
			So(e.Type, ShouldEqual, "Swap")
			So(e.Wallet, ShouldEqual, "W")
		})

		Convey("An explicit date is kept", func() {
			d := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			in := types.TransactionInput{Type: "Swap", Amount: "1", Date: &d, Counterparty: "POOL"}
			So(in.LedgerEntry("W", now).Date, ShouldEqual, d)

			tx := in.Transaction("W", now)
			So(tx.Sender, ShouldEqual, "W")
			So(tx.Recipient, ShouldEqual, "POOL")
			So(tx.Amount, ShouldEqual, 1.0)
		})
	})
}

func TestNFTInput(t *testing.T) {
	Convey("Given an NFT request", t, func() {
		in := types.NFTInput{Name: " DAO Contributor ", ImageURL: "https://example.com/dao.png", Level: 2}

		Convey("A complete request is valid", func() {
			So(in.Validate(), ShouldBeNil)
		})

		Convey("Missing name, image or level is rejected", func() {
			mutations := []func(*types.NFTInput){
				func(i *types.NFTInput) { i.Name = "" },
				func(i *types.NFTInput) { i.ImageURL = " " },
				func(i *types.NFTInput) { i.Level = 0 },
				func(i *types.NFTInput) { i.Level = -1 },
				func(i *types.NFTInput) { i.Level = 6 },
				func(i *types.NFTInput) { i.Name = strings.Repeat("x", types.MaxNFTNameLength+1) },
				func(i *types.NFTInput) { i.Description = strings.Repeat("x", types.MaxNFTDescriptionLength+1) },
			}
			for _, mutate := range mutations {
				bad := in
				mutate(&bad)
				So(errors.Is(bad.Validate(), types.ErrInvalidInput), ShouldBeTrue)
			}
		})

		Convey("NFT trims text and stamps the issue date in UTC", func() {
			issued := time.Date(2025, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))
			n := in.NFT("W1", 123456, issued)
			So(n.Name, ShouldEqual, "DAO Contributor")
			So(n.Wallet, ShouldEqual, "W1")
			So(n.AssetID, ShouldEqual, int64(123456))
			So(n.IssueDate.Location(), ShouldEqual, time.UTC)
			So(n.IssueDate.Equal(issued), ShouldBeTrue)
		})
	})
}
