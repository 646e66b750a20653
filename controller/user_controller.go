// controller/user_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cg_errors "github.com/claimguru/claimguard/errors"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/service"
	"github.com/claimguru/claimguard/util"
	helper_util "github.com/claimguru/claimguard/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

// RegisterRoutes registers the API routes for user management
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	userRoutes := r.Group("/users")
	{
		userRoutes.POST("", uc.CreateUser)
		userRoutes.GET("/:id", uc.GetUser)
		userRoutes.PUT("/:id/role", uc.AssignRole)
		userRoutes.GET("", uc.ListUsers)
	}
}

// CreateUser endpoint
func (uc *UserController) CreateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	createdUser, err := uc.userService.CreateUser(c, user, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, createdUser)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := uc.userService.GetUser(c, userID)
	if err != nil {
		if errors.Is(err, cg_errors.ErrUserNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignRole endpoint
func (uc *UserController) AssignRole(c *gin.Context) {
	targetUserID := c.Param("id")

	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role assignment request", err)
		return
	}
	assignedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	user, err := uc.userService.AssignRole(c, targetUserID, req.Role, assignedBy)
	if err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrUnknownRole):
			util.RespondWithError(c, http.StatusBadRequest, "Unknown role", err)
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, cg_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to assign role", err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		util.RespondWithError(c, http.StatusBadRequest, "organization_id is required", nil)
		return
	}
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsersByOrganization(c, organizationID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, users)
}
