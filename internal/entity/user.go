package entity

import (
	"database/sql"

	"github.com/tenk-lab/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

// GlobalAdminRoles are allowed to drive the distribution pipeline.
var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	WalletAddress sql.NullString `gorm:"index:idx_users_wallet_address,unique"`
	Name          string
	Role          GlobalRole
}
