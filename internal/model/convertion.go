package model

import (
	"time"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/domain/prize"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:            user.ID,
		Name:          user.Name,
		WalletAddress: user.WalletAddress.String,
		Role:          string(user.Role),
	}
}

func ConvertGift(gift *entity.Gift) Gift {
	if gift == nil {
		return Gift{}
	}

	return Gift{
		TokenID:   gift.TokenID,
		Tier:      string(gift.Tier),
		Amount:    prize.ByTier(gift.Tier).Amount,
		IsClaimed: gift.IsClaimed,
		Recipient: gift.Recipient.String,
	}
}

func ConvertDistribution(distribution *entity.Distribution, seedRequested bool) Distribution {
	if distribution == nil {
		return Distribution{}
	}

	result := Distribution{
		TotalTokens:        int64(distribution.TotalTokens),
		SeedRequested:      seedRequested,
		SeedFulfilled:      distribution.SeedFulfilled,
		IsShuffled:         distribution.IsShuffled,
		IsAssigned:         distribution.IsAssigned,
		PayoutTokenAddress: distribution.PayoutTokenAddress,
	}

	if distribution.ClaimStart.Valid {
		result.ClaimStart = distribution.ClaimStart.Time.Format(DefaultTimeLayout)
	}

	if distribution.ClaimEnd.Valid {
		result.ClaimEnd = distribution.ClaimEnd.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertClaimReceipt(receipt *entity.ClaimReceipt) ClaimReceipt {
	if receipt == nil {
		return ClaimReceipt{}
	}

	return ClaimReceipt{
		TokenID:     receipt.TokenID,
		Recipient:   receipt.Recipient,
		Tier:        string(receipt.Tier),
		PrizeAmount: receipt.PrizeAmount,
		TxHash:      receipt.TxHash,
		ClaimedAt:   receipt.CreatedAt.Format(DefaultTimeLayout),
	}
}
