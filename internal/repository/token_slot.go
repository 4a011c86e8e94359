package repository

import (
	"context"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

type TokenSlotRepository interface {
	CreateBatch(ctx context.Context, slots []entity.TokenSlot) error
	GetAllOrdered(ctx context.Context) ([]entity.TokenSlot, error)
	GetByTokenID(ctx context.Context, tokenID int64) (*entity.TokenSlot, error)
	ReplaceAll(ctx context.Context, slots []entity.TokenSlot) error
	Count(ctx context.Context) (int64, error)
}

type tokenSlotRepository struct{}

func NewTokenSlotRepository() *tokenSlotRepository {
	return &tokenSlotRepository{}
}

func (r *tokenSlotRepository) CreateBatch(ctx context.Context, slots []entity.TokenSlot) error {
	return xcontext.DB(ctx).CreateInBatches(slots, 500).Error
}

func (r *tokenSlotRepository) GetAllOrdered(ctx context.Context) ([]entity.TokenSlot, error) {
	var result []entity.TokenSlot
	if err := xcontext.DB(ctx).Order("position ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tokenSlotRepository) GetByTokenID(ctx context.Context, tokenID int64) (*entity.TokenSlot, error) {
	var result entity.TokenSlot
	if err := xcontext.DB(ctx).Take(&result, "token_id=?", tokenID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// ReplaceAll rewrites the whole slot table. Callers run it inside a
// transaction so a failure never leaves the table half written.
func (r *tokenSlotRepository) ReplaceAll(ctx context.Context, slots []entity.TokenSlot) error {
	err := xcontext.DB(ctx).Where("1=1").Delete(&entity.TokenSlot{}).Error
	if err != nil {
		return err
	}

	return xcontext.DB(ctx).CreateInBatches(slots, 500).Error
}

func (r *tokenSlotRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.TokenSlot{}).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
