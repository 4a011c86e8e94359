// Package prize holds the rank to prize-tier table of the drop. Ranks are the
// 1-based positions of the slot table after the shuffle.
package prize

import "github.com/tenk-lab/backend/internal/entity"

// Unit is the smallest indivisible unit of the payout token (a 6-decimal
// stable token, so 1_000_000 base units per whole token).
const Unit = 1_000_000

type Prize struct {
	Tier   entity.GiftTier
	Amount uint64
}

type rankRange struct {
	lastRank int64
	prize    Prize
}

// Ranges are contiguous: each entry covers (previous lastRank, lastRank].
// Rank 1 is the grand prize settled off-system, so it carries no on-chain
// amount; everything after the last range is the no-prize tier.
var table = []rankRange{
	{lastRank: 1, prize: Prize{Tier: entity.TierOne, Amount: 0}},
	{lastRank: 11, prize: Prize{Tier: entity.TierTwo, Amount: 10_000 * Unit}},
	{lastRank: 111, prize: Prize{Tier: entity.TierThree, Amount: 1_000 * Unit}},
	{lastRank: 511, prize: Prize{Tier: entity.TierFour, Amount: 500 * Unit}},
	{lastRank: 2511, prize: Prize{Tier: entity.TierFive, Amount: 250 * Unit}},
}

// LastWinningRank is the highest rank the assignment pass writes a tier for.
// Every rank above it keeps the default no-prize tier.
const LastWinningRank = 2511

// Of maps a 1-based rank to its prize. It is total over all positive ranks.
func Of(rank int64) Prize {
	for _, r := range table {
		if rank <= r.lastRank {
			return r.prize
		}
	}

	return Prize{Tier: entity.TierSix, Amount: 0}
}

// ByTier returns the prize of a tier.
func ByTier(tier entity.GiftTier) Prize {
	for _, r := range table {
		if r.prize.Tier == tier {
			return r.prize
		}
	}

	return Prize{Tier: entity.TierSix, Amount: 0}
}

// Claimable reports whether a tier can be claimed on-chain. The grand prize
// is settled off-system and the no-prize tier has nothing to pay, so both are
// rejected by the claim path.
func Claimable(tier entity.GiftTier) bool {
	return ByTier(tier).Amount > 0
}
