// authz/resolver_test.go
package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	cg_errors "github.com/claimguru/claimguard/errors"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/test/mock"
)

func TestGetUserPermissions_CachesWithinTTL(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: RoleNameAdjuster}, nil)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	first := resolver.GetUserPermissions(ctx, "user-1")
	second := resolver.GetUserPermissions(ctx, "user-1")

	assert.True(t, first.Contains(PermissionClaimsCreate))
	assert.Equal(t, first.Len(), second.Len())
	identity.AssertNumberOfCalls(t, "GetUser", 1)
}

func TestGetUserPermissions_RefetchesAfterExpiry(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: RoleNameManager}, nil)

	resolver := NewResolver(identity, 10*time.Millisecond)
	ctx := context.Background()

	resolver.GetUserPermissions(ctx, "user-1")
	time.Sleep(20 * time.Millisecond)
	resolver.GetUserPermissions(ctx, "user-1")

	identity.AssertNumberOfCalls(t, "GetUser", 2)
}

func TestGetUserPermissions_ClearCacheForcesRefetch(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: RoleNameClient}, nil).Once()
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: RoleNameManager}, nil).Once()

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	before := resolver.GetUserPermissions(ctx, "user-1")
	assert.False(t, before.Contains(PermissionUsersView))

	resolver.ClearCache("user-1")

	after := resolver.GetUserPermissions(ctx, "user-1")
	assert.True(t, after.Contains(PermissionUsersView))
	identity.AssertNumberOfCalls(t, "GetUser", 2)
}

func TestGetUserPermissions_UnknownUserIsEmptyAndUncached(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "ghost").
		Return(nil, cg_errors.ErrUserNotFound)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	assert.Equal(t, 0, resolver.GetUserPermissions(ctx, "ghost").Len())
	assert.False(t, resolver.HasPermission(ctx, "ghost", PermissionClaimsView))

	// Absence is not cached; the user may be created at any moment
	identity.AssertNumberOfCalls(t, "GetUser", 2)
}

func TestGetUserPermissions_StoreErrorFailsClosed(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(nil, cg_errors.ErrDatabaseOperation)

	resolver := NewResolver(identity, time.Minute)

	assert.False(t, resolver.HasPermission(context.Background(), "user-1", PermissionClaimsView))
}

func TestGetUserPermissions_UnrecognizedRoleIsEmpty(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: "Overlord"}, nil)

	resolver := NewResolver(identity, time.Minute)

	assert.Equal(t, 0, resolver.GetUserPermissions(context.Background(), "user-1").Len())
}

func TestHasPermission_SuperAdminWildcard(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "root").
		Return(&model.User{ID: "root", Role: RoleNameSuperAdmin}, nil)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	assert.True(t, resolver.HasPermission(ctx, "root", PermissionUsersDelete))
	assert.True(t, resolver.HasPermission(ctx, "root", Permission("anything.at_all")))
	assert.True(t, resolver.HasAllPermissions(ctx, "root", Catalog()))
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "adj").
		Return(&model.User{ID: "adj", Role: RoleNameAdjuster}, nil)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	assert.True(t, resolver.HasAllPermissions(ctx, "adj", []Permission{PermissionClaimsView, PermissionClaimsUpdate}))
	assert.False(t, resolver.HasAllPermissions(ctx, "adj", []Permission{PermissionClaimsView, PermissionUsersView}))
	assert.True(t, resolver.HasAnyPermission(ctx, "adj", []Permission{PermissionUsersView, PermissionTasksView}))
	assert.False(t, resolver.HasAnyPermission(ctx, "adj", []Permission{PermissionUsersView, PermissionAnalyticsView}))
}

func TestRoleHelpers(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "mgr").
		Return(&model.User{ID: "mgr", Role: RoleNameManager}, nil)
	identity.On("GetUser", testify_mock.Anything, "ghost").
		Return(nil, cg_errors.ErrUserNotFound)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	assert.Equal(t, RoleManager, resolver.GetUserRole(ctx, "mgr"))
	assert.True(t, resolver.HasRole(ctx, "mgr", RoleManager))
	assert.False(t, resolver.HasRole(ctx, "mgr", RoleAdmin))
	assert.True(t, resolver.HasMinimumRole(ctx, "mgr", RoleAdjuster))
	assert.False(t, resolver.HasMinimumRole(ctx, "mgr", RoleAdmin))

	assert.Equal(t, RoleUnknown, resolver.GetUserRole(ctx, "ghost"))
	assert.False(t, resolver.HasMinimumRole(ctx, "ghost", RoleClient))
}

func TestClearAll(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "a").
		Return(&model.User{ID: "a", Role: RoleNameClient}, nil)
	identity.On("GetUser", testify_mock.Anything, "b").
		Return(&model.User{ID: "b", Role: RoleNameClient}, nil)

	resolver := NewResolver(identity, time.Minute)
	ctx := context.Background()

	resolver.GetUserPermissions(ctx, "a")
	resolver.GetUserPermissions(ctx, "b")
	resolver.ClearAll()
	resolver.GetUserPermissions(ctx, "a")
	resolver.GetUserPermissions(ctx, "b")

	identity.AssertNumberOfCalls(t, "GetUser", 4)
}
