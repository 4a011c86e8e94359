// Package migration brings the database schema up to date. Versions are
// applied in order and recorded, so running Migrate twice is harmless.
package migration

import (
	"context"
	"errors"
	"time"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var migrations = []func(context.Context) error{
	migrate0000,
	migrate0001,
}

func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&last).Error
	if err == nil {
		current = last.Version
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for version := current + 1; version < len(migrations); version++ {
		xcontext.Logger(ctx).Infof("Applying migration %04d", version)
		if err := migrations[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}

// AutoMigrate creates the full schema at the latest version. Tests use this
// instead of replaying every migration.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.RefreshToken{},
		&entity.Distribution{},
		&entity.SeedRequest{},
		&entity.TokenSlot{},
		&entity.Gift{},
		&entity.ClaimReceipt{},
		&entity.Migration{},
	)
}
