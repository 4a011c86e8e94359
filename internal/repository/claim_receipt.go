package repository

import (
	"context"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

type ClaimReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.ClaimReceipt) error
	GetByTokenID(ctx context.Context, tokenID int64) (*entity.ClaimReceipt, error)
	GetByRecipient(ctx context.Context, recipient string) ([]entity.ClaimReceipt, error)
}

type claimReceiptRepository struct{}

func NewClaimReceiptRepository() *claimReceiptRepository {
	return &claimReceiptRepository{}
}

func (r *claimReceiptRepository) Create(ctx context.Context, receipt *entity.ClaimReceipt) error {
	return xcontext.DB(ctx).Create(receipt).Error
}

func (r *claimReceiptRepository) GetByTokenID(ctx context.Context, tokenID int64) (*entity.ClaimReceipt, error) {
	var result entity.ClaimReceipt
	if err := xcontext.DB(ctx).Take(&result, "token_id=?", tokenID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *claimReceiptRepository) GetByRecipient(ctx context.Context, recipient string) ([]entity.ClaimReceipt, error) {
	var result []entity.ClaimReceipt
	err := xcontext.DB(ctx).Where("recipient=?", recipient).
		Order("created_at DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
