// service/authorization_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/claimguru/claimguard/authz"
	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/test/mock"
	"github.com/claimguru/claimguard/util"
)

func init() {
	logger.Log = zap.NewNop()
}

func newAuthorizationService(identity *mock.MockIdentityStore) (*AuthorizationService, *authz.Resolver, *util.EventBus) {
	resolver := authz.NewResolver(identity, time.Minute)
	resources := new(mock.MockResourceStore)
	auditSvc := new(mock.MockAuditService)
	auditSvc.On("LogDecision", testify_mock.Anything, testify_mock.Anything).Return(nil)
	evaluator := authz.NewEvaluator(resolver, identity, resources, auditSvc)

	eventBus := util.NewEventBus()
	ctx := context.Background()
	eventBus.Start(ctx)

	return NewAuthorizationService(resolver, evaluator, identity, eventBus), resolver, eventBus
}

func TestRoleChangeEventClearsPermissionCache(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: authz.RoleNameClient}, nil).Once()
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: authz.RoleNameManager}, nil)

	svc, _, eventBus := newAuthorizationService(identity)
	ctx := context.Background()

	// Prime the cache with the old role
	assert.False(t, svc.HasPermission(ctx, "user-1", authz.PermissionUsersView))

	eventBus.Publish(ctx, "user.role_changed", "user-1")

	// The handler runs asynchronously; the cache entry must disappear
	// and the next resolution must observe the new role.
	assert.Eventually(t, func() bool {
		return svc.HasPermission(ctx, "user-1", authz.PermissionUsersView)
	}, time.Second, 10*time.Millisecond)
}

func TestRoleChangeEventIgnoresUnexpectedPayload(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: authz.RoleNameClient}, nil)

	svc, _, eventBus := newAuthorizationService(identity)
	ctx := context.Background()

	svc.GetUserPermissions(ctx, "user-1")
	eventBus.Publish(ctx, "user.role_changed", 12345)

	// The bad payload is reported through the bus error channel; the
	// cached entry stays intact.
	time.Sleep(50 * time.Millisecond)
	svc.GetUserPermissions(ctx, "user-1")
	identity.AssertNumberOfCalls(t, "GetUser", 1)
}

func TestClearCacheAndClearAllCaches(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "user-1").
		Return(&model.User{ID: "user-1", Role: authz.RoleNameAdjuster}, nil)

	svc, _, _ := newAuthorizationService(identity)
	ctx := context.Background()

	svc.GetUserPermissions(ctx, "user-1")
	svc.GetUserPermissions(ctx, "user-1")
	identity.AssertNumberOfCalls(t, "GetUser", 1)

	svc.ClearCache("user-1")
	svc.GetUserPermissions(ctx, "user-1")
	identity.AssertNumberOfCalls(t, "GetUser", 2)

	svc.ClearAllCaches()
	svc.GetUserPermissions(ctx, "user-1")
	identity.AssertNumberOfCalls(t, "GetUser", 3)
}

func TestVerifyOrganizationAccess(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "member").
		Return(&model.User{ID: "member", OrganizationID: "org-1", Role: authz.RoleNameAdjuster}, nil)
	identity.On("GetUser", testify_mock.Anything, "drifter").
		Return(&model.User{ID: "drifter", Role: authz.RoleNameClient}, nil)
	identity.On("GetUser", testify_mock.Anything, "ghost").
		Return(nil, cg_errors.ErrUserNotFound)

	svc, _, _ := newAuthorizationService(identity)
	ctx := context.Background()

	assert.True(t, svc.VerifyOrganizationAccess(ctx, "member", "org-1"))
	assert.False(t, svc.VerifyOrganizationAccess(ctx, "member", "org-2"))
	assert.False(t, svc.VerifyOrganizationAccess(ctx, "drifter", "org-1"))
	assert.False(t, svc.VerifyOrganizationAccess(ctx, "ghost", "org-1"))
}

func TestFilterClaimsByOrganization(t *testing.T) {
	identity := new(mock.MockIdentityStore)
	identity.On("GetUser", testify_mock.Anything, "mgr").
		Return(&model.User{ID: "mgr", OrganizationID: "org-1", Role: authz.RoleNameManager}, nil)
	identity.On("GetUser", testify_mock.Anything, "ghost").
		Return(nil, cg_errors.ErrUserNotFound)

	svc, _, _ := newAuthorizationService(identity)
	ctx := context.Background()

	claims := []*model.Claim{
		{ID: "c1", OrganizationID: "org-1"},
		{ID: "c2", OrganizationID: "org-2"},
		{ID: "c3", OrganizationID: "org-1"},
	}

	filtered := svc.FilterClaimsByOrganization(ctx, "mgr", claims)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "c1", filtered[0].ID)
	assert.Equal(t, "c3", filtered[1].ID)

	assert.Nil(t, svc.FilterClaimsByOrganization(ctx, "ghost", claims))
}
