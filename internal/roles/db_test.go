package roles_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupRolesDB(t *testing.T) *roles.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.UserRole)(nil)))
	return roles.NewDB(bunDB)
}

func TestActiveRolePrecedence(t *testing.T) {
	db := setupRolesDB(t)
	ctx := context.Background()

	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleSubAdmin))
	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleSuperAdmin))
	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleAdmin))

	role, err := db.ActiveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, role)
}

func TestActiveRoleNoRows(t *testing.T) {
	db := setupRolesDB(t)

	role, err := db.ActiveRole(context.Background(), "user-unknown")
	require.NoError(t, err)
	assert.Equal(t, "", role)
}

func TestActiveRoleIgnoresRevokedRoles(t *testing.T) {
	db := setupRolesDB(t)
	ctx := context.Background()

	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleAdmin))
	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleSubAdmin))
	require.NoError(t, db.RevokeRole(ctx, "user-1", models.RoleAdmin))

	role, err := db.ActiveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSubAdmin, role)
}

func TestRequesterContext(t *testing.T) {
	db := setupRolesDB(t)
	ctx := context.Background()

	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleAdmin))

	requester, err := db.Requester(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", requester.UserID)
	assert.True(t, requester.IsAdminClass())

	requester, err = db.Requester(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, requester.IsAdminClass())
}

func TestListByRole(t *testing.T) {
	db := setupRolesDB(t)
	ctx := context.Background()

	require.NoError(t, db.GrantRole(ctx, "user-1", models.RoleAdmin))
	require.NoError(t, db.GrantRole(ctx, "user-2", models.RoleAdmin))
	require.NoError(t, db.GrantRole(ctx, "user-3", models.RoleSubAdmin))
	require.NoError(t, db.RevokeRole(ctx, "user-2", models.RoleAdmin))

	admins, err := db.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "user-1", admins[0].UserID)
}
