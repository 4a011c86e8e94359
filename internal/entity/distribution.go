package entity

import (
	"database/sql"
	"time"
)

// DistributionID is the primary key of the only distribution row. The drop
// is a single fixed-supply collection, so the pipeline state is a singleton.
const DistributionID = 1

type Distribution struct {
	ID        int `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalTokens int

	// Seed holds the decimal form of the oracle's uint256. Empty until the
	// first fulfillment lands; never overwritten afterwards.
	Seed          string
	SeedFulfilled bool

	IsShuffled bool
	IsAssigned bool

	ClaimStart sql.NullTime
	ClaimEnd   sql.NullTime

	// PayoutTokenAddress overrides the configured ERC20 used for prize
	// payouts. Empty means use the address from configuration.
	PayoutTokenAddress string
}
