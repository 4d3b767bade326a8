package model

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNFTMetadata(t *testing.T) {
	Convey("Given an issued NFT", t, func() {
		issued := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
		n := NFT{
			Wallet:      "W1",
			AssetID:     12345,
			Name:        "DAO Contributor",
			Description: "Awarded for participation in DAO governance",
			ImageURL:    "https://example.com/dao.png",
			Level:       2,
			IssueDate:   issued,
		}

		Convey("The metadata marks it soulbound and non-transferable", func() {
			m := n.Metadata()
			So(m.Name, ShouldEqual, n.Name)
			So(m.Image, ShouldEqual, n.ImageURL)
			So(m.Properties.Soulbound, ShouldBeTrue)
			So(m.Properties.Standard, ShouldEqual, MetadataStandard)
			So(m.Properties.Level, ShouldEqual, 2)
			So(m.Properties.Traits.Transferable, ShouldBeFalse)
			So(m.Properties.IssueDate.Equal(issued), ShouldBeTrue)
		})

		Convey("The metadata encodes ARC-3 field names", func() {
			data, err := json.Marshal(n.Metadata())
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"image":"https://example.com/dao.png"`)
			So(string(data), ShouldContainSubstring, `"transferable":false`)
			So(string(data), ShouldContainSubstring, `"standard":"ARC-0003"`)
		})
	})
}
