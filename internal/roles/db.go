package roles

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ms-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DB handles user role lookups and assignments.
type DB struct {
	Bun bun.IDB
}

func NewDB(idb bun.IDB) *DB {
	return &DB{Bun: idb}
}

// ActiveRole returns the highest-precedence active admin-class role held
// by the user (super_admin > admin > sub_admin), or "" when the user holds
// none.
func (db *DB) ActiveRole(ctx context.Context, userID string) (string, error) {
	var roleType string
	err := db.Bun.NewRaw(`
		SELECT role_type
		FROM user_roles
		WHERE user_id = ?
		  AND is_active = ?
		  AND role_type IN (?, ?, ?)
		ORDER BY
			CASE role_type
				WHEN 'super_admin' THEN 1
				WHEN 'admin' THEN 2
				WHEN 'sub_admin' THEN 3
			END
		LIMIT 1
	`, userID, true, models.RoleSuperAdmin, models.RoleAdmin, models.RoleSubAdmin).
		Scan(ctx, &roleType)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return roleType, nil
}

// Requester resolves the RequesterContext for a user id.
func (db *DB) Requester(ctx context.Context, userID string) (models.RequesterContext, error) {
	role, err := db.ActiveRole(ctx, userID)
	if err != nil {
		return models.RequesterContext{}, err
	}
	return models.RequesterContext{UserID: userID, Role: role}, nil
}

// GrantRole activates a role for a user, inserting a fresh row.
func (db *DB) GrantRole(ctx context.Context, userID, roleType string) error {
	role := models.UserRole{
		ID:        uuid.New().String(),
		UserID:    userID,
		RoleType:  roleType,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Bun.NewInsert().Model(&role).Exec(ctx)
	return err
}

// RevokeRole deactivates every row of the given role type for the user.
func (db *DB) RevokeRole(ctx context.Context, userID, roleType string) error {
	_, err := db.Bun.NewUpdate().
		Model((*models.UserRole)(nil)).
		Set("is_active = ?", false).
		Where("user_id = ?", userID).
		Where("role_type = ?", roleType).
		Exec(ctx)
	return err
}

// ListByRole returns the active role rows of one role type.
func (db *DB) ListByRole(ctx context.Context, roleType string) ([]models.UserRole, error) {
	var rows []models.UserRole
	err := db.Bun.NewSelect().
		Model(&rows).
		Where("role_type = ?", roleType).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Scan(ctx)
	return rows, err
}
