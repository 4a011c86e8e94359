package repository

import (
	"context"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

type SeedRequestRepository interface {
	Create(ctx context.Context, request *entity.SeedRequest) error
	GetByID(ctx context.Context, id string) (*entity.SeedRequest, error)
	Count(ctx context.Context) (int64, error)
}

type seedRequestRepository struct{}

func NewSeedRequestRepository() *seedRequestRepository {
	return &seedRequestRepository{}
}

func (r *seedRequestRepository) Create(ctx context.Context, request *entity.SeedRequest) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *seedRequestRepository) GetByID(ctx context.Context, id string) (*entity.SeedRequest, error) {
	var result entity.SeedRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *seedRequestRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.SeedRequest{}).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
