package entity

type ClaimReceipt struct {
	Base

	TokenID int64 `gorm:"index:idx_claim_receipts_token_id,unique"`
	Gift    Gift  `gorm:"foreignKey:TokenID"`

	Recipient   string
	Tier        GiftTier
	PrizeAmount uint64
	TxHash      string
}
