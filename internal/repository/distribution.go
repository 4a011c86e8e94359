package repository

import (
	"context"
	"time"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DistributionRepository interface {
	Create(ctx context.Context, distribution *entity.Distribution) error
	Get(ctx context.Context) (*entity.Distribution, error)
	CheckAndFulfillSeed(ctx context.Context, seed string) error
	CheckAndMarkShuffled(ctx context.Context) error
	CheckAndMarkAssigned(ctx context.Context) error
	SetClaimWindow(ctx context.Context, start, end time.Time) error
	SetPayoutAddress(ctx context.Context, address string) error
}

type distributionRepository struct{}

func NewDistributionRepository() *distributionRepository {
	return &distributionRepository{}
}

func (r *distributionRepository) Create(ctx context.Context, distribution *entity.Distribution) error {
	return xcontext.DB(ctx).Create(distribution).Error
}

func (r *distributionRepository) Get(ctx context.Context) (*entity.Distribution, error) {
	var result entity.Distribution
	if err := xcontext.DB(ctx).Take(&result, "id=?", entity.DistributionID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CheckAndFulfillSeed records the seed only if no seed was recorded before.
// It returns gorm.ErrRecordNotFound when a seed already won the race, so a
// later fulfillment never overwrites the first one.
func (r *distributionRepository) CheckAndFulfillSeed(ctx context.Context, seed string) error {
	tx := xcontext.DB(ctx).Model(&entity.Distribution{}).
		Where("id=? AND seed_fulfilled=?", entity.DistributionID, false).
		Updates(map[string]any{
			"seed":           seed,
			"seed_fulfilled": true,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *distributionRepository) CheckAndMarkShuffled(ctx context.Context) error {
	tx := xcontext.DB(ctx).Model(&entity.Distribution{}).
		Where("id=? AND is_shuffled=?", entity.DistributionID, false).
		Update("is_shuffled", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *distributionRepository) CheckAndMarkAssigned(ctx context.Context) error {
	tx := xcontext.DB(ctx).Model(&entity.Distribution{}).
		Where("id=? AND is_assigned=?", entity.DistributionID, false).
		Update("is_assigned", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *distributionRepository) SetClaimWindow(ctx context.Context, start, end time.Time) error {
	return xcontext.DB(ctx).Model(&entity.Distribution{}).
		Where("id=?", entity.DistributionID).
		Updates(map[string]any{
			"claim_start": start,
			"claim_end":   end,
		}).Error
}

func (r *distributionRepository) SetPayoutAddress(ctx context.Context, address string) error {
	return xcontext.DB(ctx).Model(&entity.Distribution{}).
		Where("id=?", entity.DistributionID).
		Update("payout_token_address", address).Error
}
