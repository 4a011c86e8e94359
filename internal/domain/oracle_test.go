package domain

import (
	"math/big"
	"testing"

	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_seedOracleDomain_RequestAndFulfillSeed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)

	distributionRepo := repository.NewDistributionRepository()
	seedRequestRepo := repository.NewSeedRequestRepository()
	userRepo := repository.NewUserRepository()
	coordinator := testutil.NewMockSeedCoordinator()

	d := NewSeedOracleDomain(distributionRepo, seedRequestRepo, userRepo, coordinator)

	resp, err := d.RequestSeed(ctx, &model.RequestSeedRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RequestID)
	require.Equal(t, []string{resp.RequestID}, coordinator.Requests())

	_, err = d.FulfillSeed(ctx, &model.FulfillSeedRequest{
		RequestID: resp.RequestID,
		Seed:      "12345678901234567890",
	})
	require.NoError(t, err)

	distribution, err := distributionRepo.Get(ctx)
	require.NoError(t, err)
	require.True(t, distribution.SeedFulfilled)
	require.Equal(t, "12345678901234567890", distribution.Seed)
}

func Test_seedOracleDomain_FirstFulfillmentWins(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)

	distributionRepo := repository.NewDistributionRepository()
	seedRequestRepo := repository.NewSeedRequestRepository()
	userRepo := repository.NewUserRepository()
	coordinator := testutil.NewMockSeedCoordinator()

	d := NewSeedOracleDomain(distributionRepo, seedRequestRepo, userRepo, coordinator)

	// Two requests can be in flight before any fulfillment arrives.
	first, err := d.RequestSeed(ctx, &model.RequestSeedRequest{})
	require.NoError(t, err)
	second, err := d.RequestSeed(ctx, &model.RequestSeedRequest{})
	require.NoError(t, err)

	_, err = d.FulfillSeed(ctx, &model.FulfillSeedRequest{RequestID: first.RequestID, Seed: "111"})
	require.NoError(t, err)

	// The late fulfillment is acknowledged but does not change the seed.
	_, err = d.FulfillSeed(ctx, &model.FulfillSeedRequest{RequestID: second.RequestID, Seed: "222"})
	require.NoError(t, err)

	distribution, err := distributionRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "111", distribution.Seed)

	// Once the seed is fulfilled no more requests go out.
	_, err = d.RequestSeed(ctx, &model.RequestSeedRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyFulfilled, errx.Code)
}

func Test_seedOracleDomain_FulfillUnknownRequest(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)

	distributionRepo := repository.NewDistributionRepository()
	seedRequestRepo := repository.NewSeedRequestRepository()
	userRepo := repository.NewUserRepository()
	coordinator := testutil.NewMockSeedCoordinator()

	d := NewSeedOracleDomain(distributionRepo, seedRequestRepo, userRepo, coordinator)

	// A fulfillment for a request we never made is dropped without error.
	_, err := d.FulfillSeed(ctx, &model.FulfillSeedRequest{RequestID: "no-such-request", Seed: "42"})
	require.NoError(t, err)

	_, err = d.RequestSeed(ctx, &model.RequestSeedRequest{})
	require.NoError(t, err)

	distribution, err := distributionRepo.Get(ctx)
	require.NoError(t, err)
	require.False(t, distribution.SeedFulfilled)
}

func Test_seedOracleDomain_FulfillInvalidSeed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AdminID)
	testutil.CreateFixtureDb(ctx)

	d := NewSeedOracleDomain(
		repository.NewDistributionRepository(),
		repository.NewSeedRequestRepository(),
		repository.NewUserRepository(),
		testutil.NewMockSeedCoordinator(),
	)

	// A malformed seed is acknowledged and dropped, never an error. The
	// fulfill surface must stay infallible for any callback input.
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256).String()
	for _, seed := range []string{"", "not-a-number", "-1", "0x1f", tooBig} {
		_, err := d.FulfillSeed(ctx, &model.FulfillSeedRequest{RequestID: "id", Seed: seed})
		require.NoError(t, err)
	}

	distribution, err := repository.NewDistributionRepository().Get(ctx)
	require.NoError(t, err)
	require.False(t, distribution.SeedFulfilled)
	require.Empty(t, distribution.Seed)
}

func Test_seedOracleDomain_RequestSeedPermission(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.HolderID)
	testutil.CreateFixtureDb(ctx)

	d := NewSeedOracleDomain(
		repository.NewDistributionRepository(),
		repository.NewSeedRequestRepository(),
		repository.NewUserRepository(),
		testutil.NewMockSeedCoordinator(),
	)

	_, err := d.RequestSeed(ctx, &model.RequestSeedRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}
