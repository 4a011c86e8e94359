package domain

import (
	"context"
	"errors"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ensureDistribution loads the singleton distribution row, creating it from
// configuration on first touch.
func ensureDistribution(
	ctx context.Context, distributionRepo repository.DistributionRepository,
) (*entity.Distribution, error) {
	distribution, err := distributionRepo.Get(ctx)
	if err == nil {
		return distribution, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	distribution = &entity.Distribution{
		ID:          entity.DistributionID,
		TotalTokens: xcontext.Configs(ctx).Distribution.TotalTokens,
	}

	if err := distributionRepo.Create(ctx, distribution); err != nil {
		return nil, err
	}

	return distribution, nil
}
