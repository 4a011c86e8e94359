package domain

import (
	"context"
	"errors"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/tenk-lab/backend/internal/common"
	"github.com/tenk-lab/backend/internal/domain/prize"
	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DistributionDomain interface {
	InitializeTokens(context.Context, *model.InitializeTokensRequest) (*model.InitializeTokensResponse, error)
	ShuffleTokens(context.Context, *model.ShuffleTokensRequest) (*model.ShuffleTokensResponse, error)
	AssignTiers(context.Context, *model.AssignTiersRequest) (*model.AssignTiersResponse, error)
	SetClaimWindow(context.Context, *model.SetClaimWindowRequest) (*model.SetClaimWindowResponse, error)
	SetPayoutAddress(context.Context, *model.SetPayoutAddressRequest) (*model.SetPayoutAddressResponse, error)
	GetDistribution(context.Context, *model.GetDistributionRequest) (*model.GetDistributionResponse, error)
}

type distributionDomain struct {
	distributionRepo   repository.DistributionRepository
	seedRequestRepo    repository.SeedRequestRepository
	tokenSlotRepo      repository.TokenSlotRepository
	giftRepo           repository.GiftRepository
	globalRoleVerifier *common.GlobalRoleVerifier
}

func NewDistributionDomain(
	distributionRepo repository.DistributionRepository,
	seedRequestRepo repository.SeedRequestRepository,
	tokenSlotRepo repository.TokenSlotRepository,
	giftRepo repository.GiftRepository,
	userRepo repository.UserRepository,
) *distributionDomain {
	return &distributionDomain{
		distributionRepo:   distributionRepo,
		seedRequestRepo:    seedRequestRepo,
		tokenSlotRepo:      tokenSlotRepo,
		giftRepo:           giftRepo,
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *distributionDomain) InitializeTokens(
	ctx context.Context, req *model.InitializeTokensRequest,
) (*model.InitializeTokensResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.tokenSlotRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count token slots: %v", err)
		return nil, errorx.Unknown
	}

	if count > 0 {
		return nil, errorx.New(errorx.AlreadyInitialized, "Tokens were already initialized")
	}

	total := distribution.TotalTokens
	slots := make([]entity.TokenSlot, 0, total)
	gifts := make([]entity.Gift, 0, total)
	for position := 1; position <= total; position++ {
		slots = append(slots, entity.TokenSlot{
			Position: int64(position),
			TokenID:  int64(position),
		})
		gifts = append(gifts, entity.Gift{
			TokenID: int64(position),
			Tier:    entity.TierSix,
		})
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.tokenSlotRepo.CreateBatch(ctx, slots); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create token slots: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.giftRepo.CreateBatch(ctx, gifts); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create gifts: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	return &model.InitializeTokensResponse{TotalTokens: int64(total)}, nil
}

func (d *distributionDomain) ShuffleTokens(
	ctx context.Context, req *model.ShuffleTokensRequest,
) (*model.ShuffleTokensResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.tokenSlotRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count token slots: %v", err)
		return nil, errorx.Unknown
	}

	if count == 0 {
		return nil, errorx.New(errorx.NotInitialized, "Tokens are not initialized yet")
	}

	if !distribution.SeedFulfilled {
		return nil, errorx.New(errorx.SeedNotFulfilled, "The seed is not fulfilled yet")
	}

	seed, ok := new(big.Int).SetString(distribution.Seed, 10)
	if !ok {
		xcontext.Logger(ctx).Errorf("Stored seed %q is not a decimal integer", distribution.Seed)
		return nil, errorx.Unknown
	}

	slots, err := d.tokenSlotRepo.GetAllOrdered(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load token slots: %v", err)
		return nil, errorx.Unknown
	}

	shuffled := shuffleTokens(slots, seed)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.distributionRepo.CheckAndMarkShuffled(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyShuffled, "Tokens were already shuffled")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark distribution as shuffled: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tokenSlotRepo.ReplaceAll(ctx, shuffled); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist shuffled slots: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	return &model.ShuffleTokensResponse{}, nil
}

// shuffleTokens permutes the token ids of the slot table with a Fisher-Yates
// pass driven by the oracle seed. The same seed reduced modulo a shrinking
// range picks every swap, so the permutation is fully determined by the seed.
func shuffleTokens(slots []entity.TokenSlot, seed *big.Int) []entity.TokenSlot {
	tokens := make([]int64, len(slots))
	for i, slot := range slots {
		tokens[i] = slot.TokenID
	}

	j := new(big.Int)
	for i := len(tokens) - 1; i >= 1; i-- {
		j.Mod(seed, big.NewInt(int64(i)+1))
		k := j.Int64()
		tokens[i], tokens[k] = tokens[k], tokens[i]
	}

	shuffled := make([]entity.TokenSlot, len(tokens))
	for i, tokenID := range tokens {
		shuffled[i] = entity.TokenSlot{Position: int64(i) + 1, TokenID: tokenID}
	}

	return shuffled
}

func (d *distributionDomain) AssignTiers(
	ctx context.Context, req *model.AssignTiersRequest,
) (*model.AssignTiersResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	if !distribution.IsShuffled {
		return nil, errorx.New(errorx.NotShuffled, "Tokens are not shuffled yet")
	}

	slots, err := d.tokenSlotRepo.GetAllOrdered(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load token slots: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.distributionRepo.CheckAndMarkAssigned(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyAssigned, "Tiers were already assigned")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark distribution as assigned: %v", err)
		return nil, errorx.Unknown
	}

	for _, slot := range slots {
		if slot.Position > prize.LastWinningRank {
			break
		}

		tier := prize.Of(slot.Position).Tier
		if err := d.giftRepo.UpdateTier(ctx, slot.TokenID, tier); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot assign tier of token %d: %v", slot.TokenID, err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	return &model.AssignTiersResponse{}, nil
}

func (d *distributionDomain) SetClaimWindow(
	ctx context.Context, req *model.SetClaimWindowRequest,
) (*model.SetClaimWindowResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start time")
	}

	var end time.Time
	if req.End == "" {
		end = start.Add(xcontext.Configs(ctx).Distribution.ClaimDuration)
	} else {
		end, err = time.Parse(time.RFC3339, req.End)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid end time")
		}
	}

	if !end.After(start) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	if _, err := ensureDistribution(ctx, d.distributionRepo); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.distributionRepo.SetClaimWindow(ctx, start, end); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set claim window: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetClaimWindowResponse{}, nil
}

func (d *distributionDomain) SetPayoutAddress(
	ctx context.Context, req *model.SetPayoutAddressRequest,
) (*model.SetPayoutAddressResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if !ethcommon.IsHexAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid token address")
	}

	if _, err := ensureDistribution(ctx, d.distributionRepo); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	address := ethcommon.HexToAddress(req.Address).Hex()
	if err := d.distributionRepo.SetPayoutAddress(ctx, address); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set payout address: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetPayoutAddressResponse{}, nil
}

func (d *distributionDomain) GetDistribution(
	ctx context.Context, req *model.GetDistributionRequest,
) (*model.GetDistributionResponse, error) {
	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	requestCount, err := d.seedRequestRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count seed requests: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetDistributionResponse{
		Distribution: model.ConvertDistribution(distribution, requestCount > 0),
	}, nil
}
