package testutil

import (
	"context"
	"database/sql"

	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/repository"
)

const (
	AdminID      = "admin"
	AdminWallet  = "0x1111111111111111111111111111111111111111"
	HolderID     = "holder"
	HolderWallet = "0x2222222222222222222222222222222222222222"
)

// CreateFixtureDb fills the mock database with an admin and a token holder.
func CreateFixtureDb(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	err := userRepo.Create(ctx, &entity.User{
		Base:          entity.Base{ID: AdminID},
		Name:          "admin",
		WalletAddress: sql.NullString{Valid: true, String: AdminWallet},
		Role:          entity.RoleSuperAdmin,
	})
	if err != nil {
		panic(err)
	}

	err = userRepo.Create(ctx, &entity.User{
		Base:          entity.Base{ID: HolderID},
		Name:          "holder",
		WalletAddress: sql.NullString{Valid: true, String: HolderWallet},
		Role:          entity.RoleUser,
	})
	if err != nil {
		panic(err)
	}
}
