package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	svc, err := NewService(db)
	require.NoError(t, err)
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.GrantRolePolicy("moderator", "/admin/users/:id/status", "PUT"))
	require.NoError(t, svc.SetAdminRoles(1, []string{"moderator"}))

	allow, err := svc.EnforceAdmin(1, "/api/admin/users/42/status", "put")
	require.NoError(t, err)
	assert.True(t, allow)

	allow, err = svc.EnforceAdmin(1, "/api/admin/users/42/status", "DELETE")
	require.NoError(t, err)
	assert.False(t, allow)

	allow, err = svc.EnforceAdmin(2, "/api/admin/users/42/status", "PUT")
	require.NoError(t, err)
	assert.False(t, allow)
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.BootstrapBuiltinRoles())

	require.NoError(t, svc.SetAdminRoles(2, []string{RoleCatalogManager}))
	roles, err := svc.GetAdminRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:catalog_manager"}, roles)

	require.NoError(t, svc.SetAdminRoles(2, []string{RoleSupport}))
	roles, err = svc.GetAdminRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:support"}, roles)

	allow, err := svc.EnforceAdmin(2, "/admin/categories", "POST")
	require.NoError(t, err)
	assert.False(t, allow)

	allow, err = svc.EnforceAdmin(2, "/admin/purchases/7/status", "PATCH")
	require.NoError(t, err)
	assert.True(t, allow)

	assert.Error(t, svc.SetAdminRoles(2, []string{"ghost"}))
	roles, err = svc.GetAdminRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:support"}, roles)
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.BootstrapBuiltinRoles())
	require.NoError(t, svc.BootstrapBuiltinRoles())

	roles, err := svc.ListRoles()
	require.NoError(t, err)
	assert.Equal(t, []string{"role:auditor", "role:catalog_manager", "role:support"}, roles)

	policies, err := svc.GetRolePolicies(RoleCatalogManager)
	require.NoError(t, err)
	assert.Len(t, policies, 2)

	require.NoError(t, svc.SetAdminRoles(3, []string{RoleCatalogManager}))
	allow, err := svc.EnforceAdmin(3, "/api/admin/purchases", "GET")
	require.NoError(t, err)
	assert.True(t, allow, "auditor permissions are inherited")

	allow, err = svc.EnforceAdmin(3, "/api/admin/purchases/9/status", "PATCH")
	require.NoError(t, err)
	assert.False(t, allow)

	allow, err = svc.EnforceAdmin(3, "/api/admin/categories/4", "DELETE")
	require.NoError(t, err)
	assert.True(t, allow)
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/admin/purchases/:id", want: "/admin/purchases/:id"},
		{in: "/admin/purchases/:id", want: "/admin/purchases/:id"},
		{in: "admin/users", want: "/admin/users"},
		{in: "/api", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		assert.Equal(t, item.want, NormalizeObject(item.in), item.in)
	}
}
