package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/testutil"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newDistributionDomainForTest() (*distributionDomain, repository.DistributionRepository, repository.TokenSlotRepository, repository.GiftRepository) {
	distributionRepo := repository.NewDistributionRepository()
	tokenSlotRepo := repository.NewTokenSlotRepository()
	giftRepo := repository.NewGiftRepository()
	d := NewDistributionDomain(
		distributionRepo,
		repository.NewSeedRequestRepository(),
		tokenSlotRepo,
		giftRepo,
		repository.NewUserRepository(),
	)

	return d, distributionRepo, tokenSlotRepo, giftRepo
}

func Test_distributionDomain_InitializeTokens(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, _, tokenSlotRepo, giftRepo := newDistributionDomainForTest()

	resp, err := d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(200), resp.TotalTokens)

	count, err := tokenSlotRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(200), count)

	// Before shuffling, every slot holds its own token id and every gift
	// sits in the bottom tier.
	slots, err := tokenSlotRepo.GetAllOrdered(ctx)
	require.NoError(t, err)
	for i, slot := range slots {
		require.Equal(t, int64(i)+1, slot.Position)
		require.Equal(t, int64(i)+1, slot.TokenID)
	}

	gift, err := giftRepo.GetByTokenID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.TierSix, gift.Tier)

	_, err = d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyInitialized, errx.Code)
}

func Test_distributionDomain_InitializeTokensPermission(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.HolderID)
	testutil.CreateFixtureDb(ctx)
	d, _, _, _ := newDistributionDomainForTest()

	_, err := d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_distributionDomain_ShuffleTokensSequencing(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, distributionRepo, _, _ := newDistributionDomainForTest()

	var errx errorx.Error

	_, err := d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotInitialized, errx.Code)

	_, err = d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	require.NoError(t, err)

	_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.SeedNotFulfilled, errx.Code)

	require.NoError(t, distributionRepo.CheckAndFulfillSeed(ctx, "987654321987654321"))

	_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.NoError(t, err)

	_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyShuffled, errx.Code)
}

func Test_distributionDomain_ShuffleTokensIsPermutation(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, distributionRepo, tokenSlotRepo, _ := newDistributionDomainForTest()

	_, err := d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	require.NoError(t, err)
	require.NoError(t, distributionRepo.CheckAndFulfillSeed(ctx, "340282366920938463463374607431768211457"))
	_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.NoError(t, err)

	slots, err := tokenSlotRepo.GetAllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 200)

	seen := map[int64]bool{}
	for i, slot := range slots {
		require.Equal(t, int64(i)+1, slot.Position)
		require.False(t, seen[slot.TokenID])
		seen[slot.TokenID] = true
		require.GreaterOrEqual(t, slot.TokenID, int64(1))
		require.LessOrEqual(t, slot.TokenID, int64(200))
	}
}

func Test_distributionDomain_ShuffleTokensIsDeterministic(t *testing.T) {
	seed := "271828182845904523536028747135266249775"

	run := func() []int64 {
		ctx := testutil.MockContextWithUserID(testutil.AdminID)
		testutil.CreateFixtureDb(ctx)
		d, distributionRepo, tokenSlotRepo, _ := newDistributionDomainForTest()

		_, err := d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
		require.NoError(t, err)
		require.NoError(t, distributionRepo.CheckAndFulfillSeed(ctx, seed))
		_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
		require.NoError(t, err)

		slots, err := tokenSlotRepo.GetAllOrdered(ctx)
		require.NoError(t, err)

		tokens := make([]int64, len(slots))
		for i, slot := range slots {
			tokens[i] = slot.TokenID
		}
		return tokens
	}

	require.Equal(t, run(), run())
}

func Test_shuffleTokens(t *testing.T) {
	slots := []entity.TokenSlot{
		{Position: 1, TokenID: 1},
		{Position: 2, TokenID: 2},
		{Position: 3, TokenID: 3},
		{Position: 4, TokenID: 4},
		{Position: 5, TokenID: 5},
	}

	// seed=7 over five tokens: i=4 swaps with 7%5=2, i=3 and i=1 swap in
	// place, i=2 swaps with 7%3=1.
	shuffled := shuffleTokens(slots, big.NewInt(7))

	tokens := make([]int64, len(shuffled))
	for i, slot := range shuffled {
		require.Equal(t, int64(i)+1, slot.Position)
		tokens[i] = slot.TokenID
	}

	require.Equal(t, []int64{1, 5, 2, 4, 3}, tokens)
}

func Test_distributionDomain_AssignTiers(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, distributionRepo, tokenSlotRepo, giftRepo := newDistributionDomainForTest()

	var errx errorx.Error

	_, err := d.AssignTiers(ctx, &model.AssignTiersRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotShuffled, errx.Code)

	_, err = d.InitializeTokens(ctx, &model.InitializeTokensRequest{})
	require.NoError(t, err)
	require.NoError(t, distributionRepo.CheckAndFulfillSeed(ctx, "31415926535897932384626433832795028841"))
	_, err = d.ShuffleTokens(ctx, &model.ShuffleTokensRequest{})
	require.NoError(t, err)

	_, err = d.AssignTiers(ctx, &model.AssignTiersRequest{})
	require.NoError(t, err)

	slots, err := tokenSlotRepo.GetAllOrdered(ctx)
	require.NoError(t, err)

	wantTiers := map[int64]entity.GiftTier{
		1:   entity.TierOne,
		2:   entity.TierTwo,
		11:  entity.TierTwo,
		12:  entity.TierThree,
		111: entity.TierThree,
		112: entity.TierFour,
		200: entity.TierFour,
	}
	for position, wantTier := range wantTiers {
		gift, err := giftRepo.GetByTokenID(ctx, slots[position-1].TokenID)
		require.NoError(t, err)
		require.Equal(t, wantTier, gift.Tier)
	}

	_, err = d.AssignTiers(ctx, &model.AssignTiersRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyAssigned, errx.Code)
}

func Test_distributionDomain_SetClaimWindow(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, distributionRepo, _, _ := newDistributionDomainForTest()

	var errx errorx.Error

	_, err := d.SetClaimWindow(ctx, &model.SetClaimWindowRequest{Start: "yesterday"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	start := time.Now().Truncate(time.Second).UTC()
	_, err = d.SetClaimWindow(ctx, &model.SetClaimWindowRequest{
		Start: start.Format(time.RFC3339),
		End:   start.Add(-time.Hour).Format(time.RFC3339),
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// An empty end falls back to the configured claim duration.
	_, err = d.SetClaimWindow(ctx, &model.SetClaimWindowRequest{Start: start.Format(time.RFC3339)})
	require.NoError(t, err)

	distribution, err := distributionRepo.Get(ctx)
	require.NoError(t, err)
	require.True(t, distribution.ClaimStart.Valid)
	require.True(t, distribution.ClaimEnd.Valid)

	duration := xcontext.Configs(ctx).Distribution.ClaimDuration
	require.Equal(t, duration, distribution.ClaimEnd.Time.Sub(distribution.ClaimStart.Time))
}

func Test_distributionDomain_SetPayoutAddress(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)
	d, distributionRepo, _, _ := newDistributionDomainForTest()

	_, err := d.SetPayoutAddress(ctx, &model.SetPayoutAddressRequest{Address: "not-an-address"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = d.SetPayoutAddress(ctx, &model.SetPayoutAddressRequest{
		Address: "0x2222222222222222222222222222222222222222",
	})
	require.NoError(t, err)

	distribution, err := distributionRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "0x2222222222222222222222222222222222222222", distribution.PayoutTokenAddress)

	_, err = d.SetPayoutAddress(xcontext.WithRequestUserID(ctx, testutil.HolderID),
		&model.SetPayoutAddressRequest{Address: "0x2222222222222222222222222222222222222222"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_distributionDomain_GetDistribution(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _, _, _ := newDistributionDomainForTest()
	seedRequestRepo := repository.NewSeedRequestRepository()

	resp, err := d.GetDistribution(ctx, &model.GetDistributionRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(200), resp.Distribution.TotalTokens)
	require.False(t, resp.Distribution.SeedRequested)
	require.False(t, resp.Distribution.SeedFulfilled)

	err = seedRequestRepo.Create(ctx, &entity.SeedRequest{Base: entity.Base{ID: "request-1"}})
	require.NoError(t, err)

	resp, err = d.GetDistribution(ctx, &model.GetDistributionRequest{})
	require.NoError(t, err)
	require.True(t, resp.Distribution.SeedRequested)
}
