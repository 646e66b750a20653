// controller/authz_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/claimguru/claimguard/audit"
	"github.com/claimguru/claimguard/authz"
	cg_errors "github.com/claimguru/claimguard/errors"
	"github.com/claimguru/claimguard/service"
	"github.com/claimguru/claimguard/util"
)

type AuthzController struct {
	authzService service.IAuthorizationService
	auditService audit.Service
}

func NewAuthzController(authzService service.IAuthorizationService, auditService audit.Service) *AuthzController {
	return &AuthzController{
		authzService: authzService,
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes for authorization decisions
func (ac *AuthzController) RegisterRoutes(r *gin.RouterGroup) {
	authzRoutes := r.Group("/authz")
	{
		authzRoutes.POST("/check", ac.CheckAccess)
		authzRoutes.GET("/permissions", ac.GetOwnPermissions)
		authzRoutes.GET("/permissions/:id", ac.GetUserPermissions)
		authzRoutes.POST("/cache/clear", ac.ClearCache)
		authzRoutes.GET("/audit", ac.QueryAuditLog)
	}
}

type checkAccessRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	ResourceID   string `json:"resource_id" binding:"required"`
	Action       string `json:"action" binding:"required"`
}

// CheckAccess endpoint
func (ac *AuthzController) CheckAccess(c *gin.Context) {
	var req checkAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access check request", err)
		return
	}
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	allowed := ac.authzService.CanAccessResource(c, requesterID, req.ResourceType, req.ResourceID, req.Action)
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// GetOwnPermissions endpoint
func (ac *AuthzController) GetOwnPermissions(c *gin.Context) {
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	permissions := ac.authzService.GetUserPermissions(c, requesterID)
	c.JSON(http.StatusOK, gin.H{"user_id": requesterID, "permissions": permissions})
}

// GetUserPermissions endpoint
func (ac *AuthzController) GetUserPermissions(c *gin.Context) {
	userID := c.Param("id")
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	// A caller may always inspect their own permissions
	if requesterID != userID && !ac.authzService.HasPermission(c, requesterID, authz.PermissionUsersView) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", cg_errors.ErrForbidden)
		return
	}

	permissions := ac.authzService.GetUserPermissions(c, userID)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "permissions": permissions})
}

type clearCacheRequest struct {
	UserID string `json:"user_id"`
}

// ClearCache endpoint
func (ac *AuthzController) ClearCache(c *gin.Context) {
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}
	if !ac.authzService.HasPermission(c, requesterID, authz.PermissionOrganizationUpdate) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", cg_errors.ErrForbidden)
		return
	}

	var req clearCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid cache clear request", err)
		return
	}

	if req.UserID != "" {
		ac.authzService.ClearCache(req.UserID)
	} else {
		ac.authzService.ClearAllCaches()
	}

	c.Status(http.StatusNoContent)
}

// QueryAuditLog endpoint
func (ac *AuthzController) QueryAuditLog(c *gin.Context) {
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}
	if !ac.authzService.HasPermission(c, requesterID, authz.PermissionAnalyticsView) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", cg_errors.ErrForbidden)
		return
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp", err)
			return
		}
		to = parsed
	}

	records, err := ac.auditService.QueryDecisions(c, from, to, c.Query("user_id"), c.Query("resource_type"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit log", err)
		return
	}

	c.JSON(http.StatusOK, records)
}
