package prize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/enum"
)

func TestOf_coverage(t *testing.T) {
	const totalTokens = 10000

	counts := map[entity.GiftTier]int{}
	for rank := int64(1); rank <= totalTokens; rank++ {
		counts[Of(rank).Tier]++
	}

	require.Equal(t, 1, counts[entity.TierOne])
	require.Equal(t, 10, counts[entity.TierTwo])
	require.Equal(t, 100, counts[entity.TierThree])
	require.Equal(t, 400, counts[entity.TierFour])
	require.Equal(t, 2000, counts[entity.TierFive])
	require.Equal(t, totalTokens-2511, counts[entity.TierSix])

	total := 0
	for _, n := range counts {
		total += n
	}
	require.Equal(t, totalTokens, total)
}

func TestOf_boundaries(t *testing.T) {
	require.Equal(t, entity.TierOne, Of(1).Tier)
	require.Equal(t, entity.TierTwo, Of(2).Tier)
	require.Equal(t, entity.TierTwo, Of(11).Tier)
	require.Equal(t, entity.TierThree, Of(12).Tier)
	require.Equal(t, entity.TierThree, Of(111).Tier)
	require.Equal(t, entity.TierFour, Of(112).Tier)
	require.Equal(t, entity.TierFour, Of(511).Tier)
	require.Equal(t, entity.TierFive, Of(512).Tier)
	require.Equal(t, entity.TierFive, Of(2511).Tier)
	require.Equal(t, entity.TierSix, Of(2512).Tier)
}

func TestOf_total(t *testing.T) {
	// Any rank beyond the table maps to the no-prize tier, never fails.
	require.Equal(t, entity.TierSix, Of(10001).Tier)
	require.Equal(t, entity.TierSix, Of(1<<40).Tier)
	require.EqualValues(t, 0, Of(1<<40).Amount)
}

func TestOf_amounts(t *testing.T) {
	require.EqualValues(t, 0, Of(1).Amount)
	require.EqualValues(t, 10_000*Unit, Of(5).Amount)
	require.EqualValues(t, 1_000*Unit, Of(50).Amount)
	require.EqualValues(t, 500*Unit, Of(200).Amount)
	require.EqualValues(t, 250*Unit, Of(1000).Amount)
	require.EqualValues(t, 0, Of(3000).Amount)
}

func TestByTier_coversEveryTier(t *testing.T) {
	// Every declared tier resolves to a prize, so a tier read back from
	// storage can never miss the table.
	tiers := enum.All[entity.GiftTier]()
	require.Len(t, tiers, 6)
	for _, tier := range tiers {
		p := ByTier(tier)
		require.Equal(t, tier == entity.TierOne || tier == entity.TierSix, p.Amount == 0)
	}
}

func TestClaimable(t *testing.T) {
	require.False(t, Claimable(entity.TierOne))
	require.True(t, Claimable(entity.TierTwo))
	require.True(t, Claimable(entity.TierThree))
	require.True(t, Claimable(entity.TierFour))
	require.True(t, Claimable(entity.TierFive))
	require.False(t, Claimable(entity.TierSix))
}
