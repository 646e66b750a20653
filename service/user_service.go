// service/user_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/dao"
	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/util"
)

// IUserService defines the interface for user operations
type IUserService interface {
	CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	AssignRole(ctx context.Context, targetUserID, roleName, assignedBy string) (*model.User, error)
	ListUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*model.User, error)
}

// UserService handles business logic for user operations
type UserService struct {
	userDAO         *dao.UserDAO
	resolver        *authz.Resolver
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IUserService = &UserService{}

func NewUserService(userDAO *dao.UserDAO, resolver *authz.Resolver, validationUtil *util.ValidationUtil, notificationSvc *util.NotificationService, eventBus *util.EventBus) *UserService {
	return &UserService{
		userDAO:         userDAO,
		resolver:        resolver,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error) {
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if !s.resolver.HasPermission(ctx, creatorID, authz.PermissionUsersCreate) {
		logger.Warn("User creation denied",
			zap.String("creatorID", creatorID))
		return nil, cg_errors.ErrForbidden
	}

	userID, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.String("creatorID", creatorID))
		return nil, err
	}
	user.ID = userID

	logger.Info("User created successfully",
		zap.String("userID", userID),
		zap.String("creatorID", creatorID))
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userDAO.GetUser(ctx, userID)
}

// AssignRole changes a user's role. The assigner must hold the user
// update permission; the permission cache for the target is cleared via
// the role-change event so the old role cannot linger for the TTL.
func (s *UserService) AssignRole(ctx context.Context, targetUserID, roleName, assignedBy string) (*model.User, error) {
	role := authz.ParseRole(roleName)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", cg_errors.ErrUnknownRole, roleName)
	}

	if !s.resolver.HasPermission(ctx, assignedBy, authz.PermissionUsersUpdate) {
		logger.Warn("Role assignment denied",
			zap.String("assignedBy", assignedBy),
			zap.String("targetUserID", targetUserID))
		return nil, cg_errors.ErrForbidden
	}

	user, err := s.userDAO.UpdateUserRole(ctx, targetUserID, role.String(), assignedBy)
	if err != nil {
		logger.Error("Error assigning role",
			zap.Error(err),
			zap.String("targetUserID", targetUserID),
			zap.String("role", role.String()))
		return nil, err
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "user.role_changed", targetUserID)

	if err := s.notificationSvc.NotifyRoleChange(ctx, targetUserID, role.String()); err != nil {
		logger.Warn("Failed to send role change notification",
			zap.Error(err),
			zap.String("targetUserID", targetUserID))
	}

	logger.Info("Role assigned successfully",
		zap.String("targetUserID", targetUserID),
		zap.String("role", role.String()),
		zap.String("assignedBy", assignedBy))
	return user, nil
}

func (s *UserService) ListUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*model.User, error) {
	users, err := s.userDAO.ListUsersByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		logger.Error("Error listing users",
			zap.Error(err),
			zap.String("organizationID", organizationID))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
