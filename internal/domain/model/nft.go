package model

import "time"

// MetadataStandard is the ARC standard reputation NFTs follow.
const MetadataStandard = "ARC-0003"

// NFT is a non-transferable reputation badge issued to a wallet.
type NFT struct {
	Wallet      string    `json:"walletAddress"`
	AssetID     int64     `json:"assetId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Level       int       `json:"level"`
	IssueDate   time.Time `json:"issueDate"`
}

// NFTMetadata is the ARC-3 metadata document of an NFT.
type NFTMetadata struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Properties  NFTProperties `json:"properties"`
}

// NFTProperties carries the soulbound markers of NFTMetadata.
type NFTProperties struct {
	Level     int       `json:"level"`
	Soulbound bool      `json:"soulbound"`
	IssueDate time.Time `json:"issueDate"`
	Standard  string    `json:"standard"`
	Traits    NFTTraits `json:"traits"`
}

// NFTTraits lists the display traits of an NFT.
type NFTTraits struct {
	Level        int    `json:"level"`
	Type         string `json:"type"`
	Transferable bool   `json:"transferable"`
}

// Metadata builds the ARC-3 document for n.
func (n NFT) Metadata() NFTMetadata {
	return NFTMetadata{
		Name:        n.Name,
		Description: n.Description,
		Image:       n.ImageURL,
		Properties: NFTProperties{
			Level:     n.Level,
			Soulbound: true,
			IssueDate: n.IssueDate,
			Standard:  MetadataStandard,
			Traits: NFTTraits{
				Level: n.Level,
				Type:  "Reputation NFT",
			},
		},
	}
}
