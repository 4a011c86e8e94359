package repository

import (
	"context"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GiftRepository interface {
	CreateBatch(ctx context.Context, gifts []entity.Gift) error
	GetByTokenID(ctx context.Context, tokenID int64) (*entity.Gift, error)
	GetByTier(ctx context.Context, tier entity.GiftTier) ([]entity.Gift, error)
	UpdateTier(ctx context.Context, tokenID int64, tier entity.GiftTier) error
	CheckAndClaim(ctx context.Context, tokenID int64, recipient string) error
	CountClaimedByTier(ctx context.Context, tier entity.GiftTier) (int64, error)
}

type giftRepository struct{}

func NewGiftRepository() *giftRepository {
	return &giftRepository{}
}

func (r *giftRepository) CreateBatch(ctx context.Context, gifts []entity.Gift) error {
	return xcontext.DB(ctx).CreateInBatches(gifts, 500).Error
}

func (r *giftRepository) GetByTokenID(ctx context.Context, tokenID int64) (*entity.Gift, error) {
	var result entity.Gift
	if err := xcontext.DB(ctx).Take(&result, "token_id=?", tokenID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giftRepository) GetByTier(ctx context.Context, tier entity.GiftTier) ([]entity.Gift, error) {
	var result []entity.Gift
	err := xcontext.DB(ctx).Where("tier=?", tier).Order("token_id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giftRepository) UpdateTier(ctx context.Context, tokenID int64, tier entity.GiftTier) error {
	return xcontext.DB(ctx).Model(&entity.Gift{}).
		Where("token_id=?", tokenID).
		Update("tier", tier).Error
}

// CheckAndClaim flips the claimed flag of an unclaimed gift and records who
// claimed it. It returns gorm.ErrRecordNotFound when the gift was already
// claimed, which makes the claim exactly-once even under concurrent requests.
func (r *giftRepository) CheckAndClaim(ctx context.Context, tokenID int64, recipient string) error {
	tx := xcontext.DB(ctx).Model(&entity.Gift{}).
		Where("token_id=? AND is_claimed=?", tokenID, false).
		Updates(map[string]any{
			"is_claimed": true,
			"recipient":  recipient,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *giftRepository) CountClaimedByTier(ctx context.Context, tier entity.GiftTier) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Gift{}).
		Where("tier=? AND is_claimed=?", tier, true).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
