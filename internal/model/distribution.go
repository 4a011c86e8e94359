package model

type Distribution struct {
	TotalTokens   int64  `json:"total_tokens"`
	SeedRequested bool   `json:"seed_requested"`
	SeedFulfilled bool   `json:"seed_fulfilled"`
	IsShuffled    bool   `json:"is_shuffled"`
	IsAssigned    bool   `json:"is_assigned"`
	ClaimStart    string `json:"claim_start,omitempty"`
	ClaimEnd      string `json:"claim_end,omitempty"`

	PayoutTokenAddress string `json:"payout_token_address,omitempty"`
}

// Request Seed
type RequestSeedRequest struct{}

type RequestSeedResponse struct {
	RequestID string `json:"request_id"`
}

// Fulfill Seed. The seed is the decimal string of an unsigned 256-bit
// integer, as delivered by the randomness coordinator.
type FulfillSeedRequest struct {
	RequestID string `json:"request_id"`
	Seed      string `json:"seed"`
}

type FulfillSeedResponse struct{}

// Initialize Tokens
type InitializeTokensRequest struct{}

type InitializeTokensResponse struct {
	TotalTokens int64 `json:"total_tokens"`
}

// Shuffle Tokens
type ShuffleTokensRequest struct{}

type ShuffleTokensResponse struct{}

// Assign Tiers
type AssignTiersRequest struct{}

type AssignTiersResponse struct{}

// Set Claim Window
type SetClaimWindowRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SetClaimWindowResponse struct{}

// Set Payout Address
type SetPayoutAddressRequest struct {
	Address string `json:"address"`
}

type SetPayoutAddressResponse struct{}

// Get Distribution
type GetDistributionRequest struct{}

type GetDistributionResponse struct {
	Distribution Distribution `json:"distribution"`
}
