package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenk-lab/backend/internal/common"
	"github.com/tenk-lab/backend/internal/domain/prize"
	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/pubsub"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ClaimDomain interface {
	Claim(context.Context, *model.ClaimGiftRequest) (*model.ClaimGiftResponse, error)
	GetGift(context.Context, *model.GetGiftRequest) (*model.GetGiftResponse, error)
	GetPrize(context.Context, *model.GetPrizeRequest) (*model.GetPrizeResponse, error)
	GetMyReceipts(context.Context, *model.GetMyReceiptsRequest) (*model.GetMyReceiptsResponse, error)
}

type claimDomain struct {
	distributionRepo repository.DistributionRepository
	giftRepo         repository.GiftRepository
	claimReceiptRepo repository.ClaimReceiptRepository
	userRepo         repository.UserRepository
	ownership        iface.OwnershipRegistry
	payout           iface.PayoutFacility
	publisher        pubsub.Publisher
}

func NewClaimDomain(
	distributionRepo repository.DistributionRepository,
	giftRepo repository.GiftRepository,
	claimReceiptRepo repository.ClaimReceiptRepository,
	userRepo repository.UserRepository,
	ownership iface.OwnershipRegistry,
	payout iface.PayoutFacility,
	publisher pubsub.Publisher,
) *claimDomain {
	return &claimDomain{
		distributionRepo: distributionRepo,
		giftRepo:         giftRepo,
		claimReceiptRepo: claimReceiptRepo,
		userRepo:         userRepo,
		ownership:        ownership,
		payout:           payout,
		publisher:        publisher,
	}
}

// claimEvent is published to the claim topic after a successful claim.
type claimEvent struct {
	TokenID     int64  `json:"token_id"`
	Recipient   string `json:"recipient"`
	Tier        string `json:"tier"`
	PrizeAmount uint64 `json:"prize_amount"`
	TxHash      string `json:"tx_hash"`
}

func (d *claimDomain) Claim(
	ctx context.Context, req *model.ClaimGiftRequest,
) (*model.ClaimGiftResponse, error) {
	distribution, err := ensureDistribution(ctx, d.distributionRepo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get distribution: %v", err)
		return nil, errorx.Unknown
	}

	if !distribution.IsAssigned {
		return nil, errorx.New(errorx.TooEarly, "The claim period has not started yet")
	}

	if err := checkClaimWindow(distribution, time.Now()); err != nil {
		return nil, err
	}

	gift, err := d.giftRepo.GetByTokenID(ctx, req.TokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found token %d", req.TokenID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get gift: %v", err)
		return nil, errorx.Unknown
	}

	wonPrize := prize.ByTier(gift.Tier)
	if !prize.Claimable(gift.Tier) {
		return nil, errorx.New(errorx.NoGiftAvailable, "No claimable gift for token %d", req.TokenID)
	}

	if gift.IsClaimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "The gift of token %d was already claimed", req.TokenID)
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.WalletAddress.Valid || user.WalletAddress.String == "" {
		return nil, errorx.New(errorx.NotOwner, "Your account has no wallet address")
	}

	// Ownership is always resolved against the chain at claim time. A token
	// sold after mint carries its unclaimed gift to the new holder.
	owner, err := d.ownership.OwnerOf(ctx, req.TokenID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve owner of token %d: %v", req.TokenID, err)
		return nil, errorx.Unknown
	}

	if !strings.EqualFold(owner, user.WalletAddress.String) {
		return nil, errorx.New(errorx.NotOwner, "You do not hold token %d", req.TokenID)
	}

	amount := new(big.Int).SetUint64(wonPrize.Amount)
	balance, err := d.payout.Balance(ctx, distribution.PayoutTokenAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get payout balance: %v", err)
		return nil, errorx.Unknown
	}

	if balance.Cmp(amount) < 0 {
		return nil, errorx.New(errorx.InsufficientBalance, "The payout wallet cannot cover this prize")
	}

	// The claim flag flips before the transfer goes out. If the transfer
	// fails the transaction rolls back and the gift stays claimable.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.giftRepo.CheckAndClaim(ctx, req.TokenID, owner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "The gift of token %d was already claimed", req.TokenID)
		}

		xcontext.Logger(ctx).Errorf("Cannot claim gift: %v", err)
		return nil, errorx.Unknown
	}

	txHash, err := d.payout.Transfer(ctx, distribution.PayoutTokenAddress, owner, amount)
	if err != nil {
		common.PromCounters[common.BlockchainTransactionFailure].WithLabelValues("transfer").Inc()
		xcontext.Logger(ctx).Errorf("Cannot transfer prize of token %d: %v", req.TokenID, err)
		return nil, errorx.New(errorx.TransferFailed, "The prize transfer failed, nothing was claimed")
	}

	receipt := &entity.ClaimReceipt{
		Base:        entity.Base{ID: uuid.NewString()},
		TokenID:     req.TokenID,
		Recipient:   owner,
		Tier:        gift.Tier,
		PrizeAmount: wonPrize.Amount,
		TxHash:      txHash,
	}

	if err := d.claimReceiptRepo.Create(ctx, receipt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create claim receipt: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	common.PromCounters[common.GiftsClaimedTotal].WithLabelValues(string(gift.Tier)).Inc()
	d.publishClaimEvent(ctx, receipt)

	receipt.CreatedAt = time.Now()
	return &model.ClaimGiftResponse{Receipt: model.ConvertClaimReceipt(receipt)}, nil
}

// checkClaimWindow gates a claim on the half-open window [start, end). The
// end instant itself is already too late.
func checkClaimWindow(distribution *entity.Distribution, now time.Time) error {
	if !distribution.ClaimStart.Valid || now.Before(distribution.ClaimStart.Time) {
		return errorx.New(errorx.TooEarly, "The claim period has not started yet")
	}

	if distribution.ClaimEnd.Valid && !now.Before(distribution.ClaimEnd.Time) {
		return errorx.New(errorx.TooLate, "The claim period has ended")
	}

	return nil
}

func (d *claimDomain) publishClaimEvent(ctx context.Context, receipt *entity.ClaimReceipt) {
	event := claimEvent{
		TokenID:     receipt.TokenID,
		Recipient:   receipt.Recipient,
		Tier:        string(receipt.Tier),
		PrizeAmount: receipt.PrizeAmount,
		TxHash:      receipt.TxHash,
	}

	msg, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal claim event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.ClaimTopic
	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{
		Key: []byte(receipt.Recipient),
		Msg: msg,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish claim event: %v", err)
	}
}

func (d *claimDomain) GetGift(
	ctx context.Context, req *model.GetGiftRequest,
) (*model.GetGiftResponse, error) {
	gift, err := d.giftRepo.GetByTokenID(ctx, req.TokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found token %d", req.TokenID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get gift: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetGiftResponse{Gift: model.ConvertGift(gift)}, nil
}

func (d *claimDomain) GetPrize(
	ctx context.Context, req *model.GetPrizeRequest,
) (*model.GetPrizeResponse, error) {
	if req.Rank < 1 {
		return nil, errorx.New(errorx.BadRequest, "Rank must be a positive number")
	}

	wonPrize := prize.Of(req.Rank)
	return &model.GetPrizeResponse{
		Tier:   string(wonPrize.Tier),
		Amount: wonPrize.Amount,
	}, nil
}

func (d *claimDomain) GetMyReceipts(
	ctx context.Context, req *model.GetMyReceiptsRequest,
) (*model.GetMyReceiptsResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.WalletAddress.Valid {
		return &model.GetMyReceiptsResponse{Receipts: []model.ClaimReceipt{}}, nil
	}

	receipts, err := d.claimReceiptRepo.GetByRecipient(ctx, user.WalletAddress.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get claim receipts: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.ClaimReceipt, 0, len(receipts))
	for i := range receipts {
		result = append(result, model.ConvertClaimReceipt(&receipts[i]))
	}

	return &model.GetMyReceiptsResponse{Receipts: result}, nil
}
