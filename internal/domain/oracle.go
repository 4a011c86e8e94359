package domain

import (
	"context"
	"errors"
	"math/big"

	"github.com/google/uuid"
	"github.com/tenk-lab/backend/internal/common"
	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SeedOracleDomain interface {
	RequestSeed(context.Context, *model.RequestSeedRequest) (*model.RequestSeedResponse, error)
	FulfillSeed(context.Context, *model.FulfillSeedRequest) (*model.FulfillSeedResponse, error)
	HandleSeedLog(ctx context.Context, requestID string, seed *big.Int) error
}

type seedOracleDomain struct {
	distributionRepo   repository.DistributionRepository
	seedRequestRepo    repository.SeedRequestRepository
	coordinator        iface.SeedCoordinator
	globalRoleVerifier *common.GlobalRoleVerifier
}

func NewSeedOracleDomain(
	distributionRepo repository.DistributionRepository,
	seedRequestRepo repository.SeedRequestRepository,
	userRepo repository.UserRepository,
	coordinator iface.SeedCoordinator,
) *seedOracleDomain {
	return &seedOracleDomain{
		distributionRepo:   distributionRepo,
		seedRequestRepo:    seedRequestRepo,
		coordinator:        coordinator,
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *seedOracleDomain) RequestSeed(
	ctx context.Context, req *model.RequestSeedRequest,
) (*model.RequestSeedResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	if distribution.SeedFulfilled {
		return nil, errorx.New(errorx.AlreadyFulfilled, "The seed was already fulfilled")
	}

	request := &entity.SeedRequest{Base: entity.Base{ID: uuid.NewString()}}

	txHash, err := d.coordinator.RequestSeed(ctx, request.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request seed on chain: %v", err)
		return nil, errorx.Unknown
	}

	request.TxHash = txHash
	if err := d.seedRequestRepo.Create(ctx, request); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create seed request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RequestSeedResponse{RequestID: request.ID}, nil
}

// FulfillSeed records a fulfillment coming back from the oracle. It never
// fails for reasons the oracle cannot fix: a malformed seed, an unknown
// request id or a seed arriving after the first one is acknowledged and
// dropped, so a misbehaving callback cannot wedge the oracle round trip.
func (d *seedOracleDomain) FulfillSeed(
	ctx context.Context, req *model.FulfillSeedRequest,
) (*model.FulfillSeedResponse, error) {
	seed, ok := new(big.Int).SetString(req.Seed, 10)
	if !ok || seed.Sign() < 0 || seed.BitLen() > 256 {
		xcontext.Logger(ctx).Warnf("Dropped fulfillment of request %s with invalid seed %q",
			req.RequestID, req.Seed)
		return &model.FulfillSeedResponse{}, nil
	}

	_, err := d.seedRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Dropped fulfillment of unknown request %s", req.RequestID)
			return &model.FulfillSeedResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get seed request: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := ensureDistribution(ctx, d.distributionRepo); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	err = d.distributionRepo.CheckAndFulfillSeed(ctx, seed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A seed already won the race. The first fulfillment is final.
			xcontext.Logger(ctx).Infof("Dropped late fulfillment of request %s", req.RequestID)
			return &model.FulfillSeedResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot fulfill seed: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Seed fulfilled by request %s", req.RequestID)
	return &model.FulfillSeedResponse{}, nil
}

// HandleSeedLog adapts the watcher's fulfillment events onto FulfillSeed.
func (d *seedOracleDomain) HandleSeedLog(ctx context.Context, requestID string, seed *big.Int) error {
	_, err := d.FulfillSeed(ctx, &model.FulfillSeedRequest{
		RequestID: requestID,
		Seed:      seed.String(),
	})

	return err
}
