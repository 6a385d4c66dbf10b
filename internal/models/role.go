package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Admin-class roles in precedence order.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleSubAdmin   = "sub_admin"
)

// UserRole maps a user to an admin-class role. A user may hold several
// rows; the highest-precedence active one wins.
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	RoleType  string    `bun:"role_type,notnull" json:"role_type"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// RequesterContext carries the identity the HTTP layer resolved for the
// current request. The reporting core receives it explicitly instead of
// reading ambient session state; authorization stays with the caller.
type RequesterContext struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// IsAdminClass reports whether the requester holds any of the three
// admin-tier roles.
func (r RequesterContext) IsAdminClass() bool {
	switch r.Role {
	case RoleSuperAdmin, RoleAdmin, RoleSubAdmin:
		return true
	}
	return false
}
