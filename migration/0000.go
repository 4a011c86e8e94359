package migration

import (
	"context"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

// migrate0000 creates the database with the latest version.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.RefreshToken{},
		&entity.Distribution{},
		&entity.SeedRequest{},
		&entity.TokenSlot{},
		&entity.Gift{},
		&entity.ClaimReceipt{},
	)
}
