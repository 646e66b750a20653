// authz/registry_test.go
package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	logger "github.com/claimguru/claimguard/logging"
)

func init() {
	logger.Log = zap.NewNop()
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleClient, ParseRole("Client"))
	assert.Equal(t, RoleAdjuster, ParseRole("Adjuster"))
	assert.Equal(t, RoleManager, ParseRole("Manager"))
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleSuperAdmin, ParseRole("Super Admin"))

	assert.Equal(t, RoleUnknown, ParseRole("superadmin"))
	assert.Equal(t, RoleUnknown, ParseRole("client"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
	assert.False(t, RoleUnknown.Valid())
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.False(t, RoleClient.AtLeast(RoleAdjuster))
	assert.False(t, RoleUnknown.AtLeast(RoleClient))
}

func TestPermissionsForRole_Client(t *testing.T) {
	permissions := PermissionsForRole(RoleClient)

	assert.True(t, permissions.Contains(PermissionClaimsView))
	assert.True(t, permissions.Contains(PermissionDocumentsView))
	assert.True(t, permissions.Contains(PermissionDocumentsUpload))

	assert.False(t, permissions.Contains(PermissionClaimsCreate))
	assert.False(t, permissions.Contains(PermissionClientsView))
	assert.False(t, permissions.Contains(PermissionUsersView))
	assert.Equal(t, 3, permissions.Len())
}

func TestPermissionsForRole_UnknownIsEmpty(t *testing.T) {
	assert.Equal(t, 0, PermissionsForRole(RoleUnknown).Len())
	assert.Equal(t, 0, PermissionsForRoleName("Intruder").Len())
	assert.Equal(t, 0, PermissionsForRole(Role(42)).Len())
}

func TestPermissionsMonotoneUpToAdmin(t *testing.T) {
	// A permission granted to a role is granted to every higher role;
	// there is no privilege a Manager has that an Admin lacks.
	ladder := []Role{RoleClient, RoleAdjuster, RoleManager, RoleAdmin}
	for i := 0; i < len(ladder)-1; i++ {
		lower := PermissionsForRole(ladder[i])
		higher := PermissionsForRole(ladder[i+1])
		for _, p := range lower.List() {
			assert.True(t, higher.Contains(p),
				"%s holds %s but %s does not", ladder[i], p, ladder[i+1])
		}
	}
}

func TestSuperAdminWildcard(t *testing.T) {
	permissions := PermissionsForRole(RoleSuperAdmin)

	for _, p := range Catalog() {
		assert.True(t, permissions.Contains(p), "wildcard must cover %s", p)
	}
	// Permissions added after the role was resolved are covered too
	assert.True(t, permissions.Contains(Permission("billing.refund")))

	assert.True(t, permissions.ContainsAll([]Permission{PermissionUsersDelete, PermissionOrganizationSettings}))
	assert.True(t, permissions.ContainsAny([]Permission{Permission("nonexistent.action")}))
}

func TestNobodyHoldsReservedPermissions(t *testing.T) {
	// users.delete and organization.settings are defined but granted to
	// no enumerated role; only the wildcard reaches them.
	for _, role := range []Role{RoleClient, RoleAdjuster, RoleManager, RoleAdmin} {
		permissions := PermissionsForRole(role)
		assert.False(t, permissions.Contains(PermissionUsersDelete), "role %s", role)
		assert.False(t, permissions.Contains(PermissionOrganizationSettings), "role %s", role)
	}
}

func TestPermissionSetContains(t *testing.T) {
	set := NewPermissionSet(PermissionClaimsView, PermissionClaimsUpdate)

	assert.True(t, set.Contains(PermissionClaimsView))
	assert.False(t, set.Contains(PermissionClaimsDelete))
	assert.True(t, set.ContainsAll([]Permission{PermissionClaimsView, PermissionClaimsUpdate}))
	assert.False(t, set.ContainsAll([]Permission{PermissionClaimsView, PermissionClaimsDelete}))
	assert.True(t, set.ContainsAny([]Permission{PermissionClaimsDelete, PermissionClaimsUpdate}))
	assert.False(t, set.ContainsAny([]Permission{PermissionClaimsDelete}))

	var empty PermissionSet
	assert.False(t, empty.Contains(PermissionClaimsView))
	assert.True(t, empty.ContainsAll(nil))
	assert.False(t, empty.ContainsAny([]Permission{PermissionClaimsView}))
}
