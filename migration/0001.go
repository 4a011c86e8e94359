package migration

import (
	"context"
	"errors"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// migrate0001 seeds the singleton distribution row.
func migrate0001(ctx context.Context) error {
	var distribution entity.Distribution
	err := xcontext.DB(ctx).Take(&distribution, "id=?", entity.DistributionID).Error
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return xcontext.DB(ctx).Create(&entity.Distribution{
		ID:          entity.DistributionID,
		TotalTokens: xcontext.Configs(ctx).Distribution.TotalTokens,
	}).Error
}
