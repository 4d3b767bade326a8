package model

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseAmount(t *testing.T) {
	Convey("Given ledger amount strings", t, func() {
		Convey("When the text carries a sign and a unit", func() {
			v, err := ParseAmount("+285 ALGO")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 285)
		})

		Convey("When the amount is negative with thousands separators", func() {
			v, err := ParseAmount("-1,000.5 ALGO")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, -1000.5)
		})

		Convey("When the text is empty", func() {
			v, err := ParseAmount("")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
		})

		Convey("When the text has no digits but a sign", func() {
			_, err := ParseAmount("- ALGO")
			So(errors.Is(err, ErrInvalidAmount), ShouldBeTrue)
		})
	})
}

func TestFormatAmount(t *testing.T) {
	Convey("Given numeric amounts", t, func() {
		So(FormatAmount(285, ""), ShouldEqual, "+285 ALGO")
		So(FormatAmount(-12.5, "ALGO"), ShouldEqual, "-12.5 ALGO")
		So(FormatAmount(0, "USDC"), ShouldEqual, "+0 USDC")
	})
}

func TestLedgerEntryTransaction(t *testing.T) {
	Convey("Given a stored ledger entry", t, func() {
		date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		e := LedgerEntry{TxID: "tx-1", Wallet: "W1", Type: "DAO Voting", Amount: "+10 ALGO", Date: date}

		Convey("When converting it to an engine transaction", func() {
			tx := e.Transaction()

			Convey("Then the wallet becomes the sender and the amount is parsed", func() {
				So(tx.ID, ShouldEqual, "tx-1")
				So(tx.Sender, ShouldEqual, "W1")
				So(tx.Recipient, ShouldBeEmpty)
				So(tx.Amount, ShouldEqual, 10)
				So(tx.Timestamp, ShouldEqual, date)
			})
		})

		Convey("When the amount is malformed", func() {
			e.Amount = "+ ALGO"
			So(e.Transaction().Amount, ShouldEqual, 0)
		})
	})
}
