package entity

import (
	"database/sql"

	"github.com/tenk-lab/backend/pkg/enum"
)

type GiftTier string

var (
	TierOne   = enum.New(GiftTier("one"))
	TierTwo   = enum.New(GiftTier("two"))
	TierThree = enum.New(GiftTier("three"))
	TierFour  = enum.New(GiftTier("four"))
	TierFive  = enum.New(GiftTier("five"))
	TierSix   = enum.New(GiftTier("six"))
)

// Gift is the claim record of one token. Tier defaults to the no-prize tier;
// the assignment pass only writes winning ranks.
type Gift struct {
	TokenID   int64 `gorm:"primarykey;autoIncrement:false"`
	Tier      GiftTier
	Recipient sql.NullString
	IsClaimed bool
}
