package model

type Gift struct {
	TokenID   int64  `json:"token_id"`
	Tier      string `json:"tier"`
	Amount    uint64 `json:"amount"`
	IsClaimed bool   `json:"is_claimed"`
	Recipient string `json:"recipient,omitempty"`
}

type ClaimReceipt struct {
	TokenID     int64  `json:"token_id"`
	Recipient   string `json:"recipient"`
	Tier        string `json:"tier"`
	PrizeAmount uint64 `json:"prize_amount"`
	TxHash      string `json:"tx_hash"`
	ClaimedAt   string `json:"claimed_at"`
}

// Get Gift
type GetGiftRequest struct {
	TokenID int64 `json:"token_id"`
}

type GetGiftResponse struct {
	Gift Gift `json:"gift"`
}

// Get Prize. The prize table is fixed, so the lookup is by shuffled rank and
// needs no distribution state.
type GetPrizeRequest struct {
	Rank int64 `json:"rank"`
}

type GetPrizeResponse struct {
	Tier   string `json:"tier"`
	Amount uint64 `json:"amount"`
}

// Claim Gift
type ClaimGiftRequest struct {
	TokenID int64 `json:"token_id"`
}

type ClaimGiftResponse struct {
	Receipt ClaimReceipt `json:"receipt"`
}

// My Receipts
type GetMyReceiptsRequest struct{}

type GetMyReceiptsResponse struct {
	Receipts []ClaimReceipt `json:"receipts"`
}
