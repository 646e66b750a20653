// controller/authz_controller_test.go
package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/claimguru/claimguard/audit"
	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/controller"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/test/mock"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

// mockAuthorizationService is a testify mock of service.IAuthorizationService
type mockAuthorizationService struct {
	testify_mock.Mock
}

func (m *mockAuthorizationService) GetUserPermissions(ctx context.Context, userID string) []string {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string)
}

func (m *mockAuthorizationService) HasPermission(ctx context.Context, userID string, permission authz.Permission) bool {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0)
}

func (m *mockAuthorizationService) HasAllPermissions(ctx context.Context, userID string, permissions []authz.Permission) bool {
	args := m.Called(ctx, userID, permissions)
	return args.Bool(0)
}

func (m *mockAuthorizationService) HasAnyPermission(ctx context.Context, userID string, permissions []authz.Permission) bool {
	args := m.Called(ctx, userID, permissions)
	return args.Bool(0)
}

func (m *mockAuthorizationService) CanAccessResource(ctx context.Context, userID, resourceType, resourceID, action string) bool {
	args := m.Called(ctx, userID, resourceType, resourceID, action)
	return args.Bool(0)
}

func (m *mockAuthorizationService) GetUserRole(ctx context.Context, userID string) authz.Role {
	args := m.Called(ctx, userID)
	return args.Get(0).(authz.Role)
}

func (m *mockAuthorizationService) ClearCache(userID string) {
	m.Called(userID)
}

func (m *mockAuthorizationService) ClearAllCaches() {
	m.Called()
}

func (m *mockAuthorizationService) VerifyOrganizationAccess(ctx context.Context, userID, organizationID string) bool {
	args := m.Called(ctx, userID, organizationID)
	return args.Bool(0)
}

func (m *mockAuthorizationService) FilterClaimsByOrganization(ctx context.Context, userID string, claims []*model.Claim) []*model.Claim {
	args := m.Called(ctx, userID, claims)
	return args.Get(0).([]*model.Claim)
}

func setupAuthzRouter(authzSvc *mockAuthorizationService, auditSvc *mock.MockAuditService, callerID string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if callerID != "" {
			c.Set("requestingUserID", callerID)
		}
		c.Next()
	})
	api := router.Group("/")
	controller.NewAuthzController(authzSvc, auditSvc).RegisterRoutes(api)
	return router
}

func TestCheckAccess(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("CanAccessResource", testify_mock.Anything, "caller", "claims", "claim-1", "view").
		Return(true)

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	body := strings.NewReader(`{"resource_type":"claims","resource_id":"claim-1","action":"view"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/authz/check", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["allowed"])
}

func TestCheckAccess_BadRequest(t *testing.T) {
	router := setupAuthzRouter(new(mockAuthorizationService), new(mock.MockAuditService), "caller")

	body := strings.NewReader(`{"resource_type":"claims"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/authz/check", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAccess_NoCaller(t *testing.T) {
	router := setupAuthzRouter(new(mockAuthorizationService), new(mock.MockAuditService), "")

	body := strings.NewReader(`{"resource_type":"claims","resource_id":"claim-1","action":"view"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/authz/check", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserPermissions_SelfAllowed(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("GetUserPermissions", testify_mock.Anything, "caller").
		Return([]string{"claims.view", "documents.view"})

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/authz/permissions/caller", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	authzSvc.AssertNotCalled(t, "HasPermission", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything)
}

func TestGetUserPermissions_OtherUserRequiresPermission(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("HasPermission", testify_mock.Anything, "caller", authz.PermissionUsersView).
		Return(false)

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/authz/permissions/someone-else", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClearCache_RequiresOrganizationUpdate(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("HasPermission", testify_mock.Anything, "caller", authz.PermissionOrganizationUpdate).
		Return(true)
	authzSvc.On("ClearCache", "user-1").Return()

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	body := strings.NewReader(`{"user_id":"user-1"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/authz/cache/clear", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	authzSvc.AssertCalled(t, "ClearCache", "user-1")
}

func TestClearCache_Forbidden(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("HasPermission", testify_mock.Anything, "caller", authz.PermissionOrganizationUpdate).
		Return(false)

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/authz/cache/clear", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	authzSvc.AssertNotCalled(t, "ClearCache", testify_mock.Anything)
	authzSvc.AssertNotCalled(t, "ClearAllCaches")
}

func TestQueryAuditLog(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("HasPermission", testify_mock.Anything, "caller", authz.PermissionAnalyticsView).
		Return(true)

	auditSvc := new(mock.MockAuditService)
	auditSvc.On("QueryDecisions", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything, "user-1", "claims").
		Return([]audit.Record{{UserID: "user-1", Action: "view", ResourceType: "claims", Success: true, CreatedAt: time.Now()}}, nil)

	router := setupAuthzRouter(authzSvc, auditSvc, "caller")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/authz/audit?user_id=user-1&resource_type=claims", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var records []audit.Record
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestQueryAuditLog_InvalidTimestamp(t *testing.T) {
	authzSvc := new(mockAuthorizationService)
	authzSvc.On("HasPermission", testify_mock.Anything, "caller", authz.PermissionAnalyticsView).
		Return(true)

	router := setupAuthzRouter(authzSvc, new(mock.MockAuditService), "caller")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/authz/audit?from=yesterday", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
