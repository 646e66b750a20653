// service/authorization_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/claimguru/claimguard/authz"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/util"
)

// IAuthorizationService is the decision surface the HTTP layer calls.
type IAuthorizationService interface {
	GetUserPermissions(ctx context.Context, userID string) []string
	HasPermission(ctx context.Context, userID string, permission authz.Permission) bool
	HasAllPermissions(ctx context.Context, userID string, permissions []authz.Permission) bool
	HasAnyPermission(ctx context.Context, userID string, permissions []authz.Permission) bool
	CanAccessResource(ctx context.Context, userID, resourceType, resourceID, action string) bool
	GetUserRole(ctx context.Context, userID string) authz.Role
	ClearCache(userID string)
	ClearAllCaches()
	VerifyOrganizationAccess(ctx context.Context, userID, organizationID string) bool
	FilterClaimsByOrganization(ctx context.Context, userID string, claims []*model.Claim) []*model.Claim
}

// AuthorizationService fronts the resolver and evaluator and keeps the
// permission cache coherent with role changes flowing through the
// event bus.
type AuthorizationService struct {
	resolver  *authz.Resolver
	evaluator *authz.Evaluator
	identity  authz.IdentityStore
	eventBus  *util.EventBus
}

var _ IAuthorizationService = &AuthorizationService{}

func NewAuthorizationService(resolver *authz.Resolver, evaluator *authz.Evaluator, identity authz.IdentityStore, eventBus *util.EventBus) *AuthorizationService {
	service := &AuthorizationService{
		resolver:  resolver,
		evaluator: evaluator,
		identity:  identity,
		eventBus:  eventBus,
	}

	// A role change must not serve stale privileges from the cache
	eventBus.Subscribe("user.role_changed", service.handleRoleChanged)

	return service
}

func (s *AuthorizationService) handleRoleChanged(ctx context.Context, event util.Event) error {
	userID, ok := event.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for role change event", event.Payload)
	}
	s.resolver.ClearCache(userID)
	logger.Info("Permission cache invalidated after role change", zap.String("userID", userID))
	return nil
}

func (s *AuthorizationService) GetUserPermissions(ctx context.Context, userID string) []string {
	return s.resolver.GetUserPermissions(ctx, userID).Strings()
}

func (s *AuthorizationService) HasPermission(ctx context.Context, userID string, permission authz.Permission) bool {
	return s.resolver.HasPermission(ctx, userID, permission)
}

func (s *AuthorizationService) HasAllPermissions(ctx context.Context, userID string, permissions []authz.Permission) bool {
	return s.resolver.HasAllPermissions(ctx, userID, permissions)
}

func (s *AuthorizationService) HasAnyPermission(ctx context.Context, userID string, permissions []authz.Permission) bool {
	return s.resolver.HasAnyPermission(ctx, userID, permissions)
}

func (s *AuthorizationService) CanAccessResource(ctx context.Context, userID, resourceType, resourceID, action string) bool {
	return s.evaluator.CanAccessResource(ctx, userID, resourceType, resourceID, action)
}

func (s *AuthorizationService) GetUserRole(ctx context.Context, userID string) authz.Role {
	return s.resolver.GetUserRole(ctx, userID)
}

func (s *AuthorizationService) ClearCache(userID string) {
	s.resolver.ClearCache(userID)
}

func (s *AuthorizationService) ClearAllCaches() {
	s.resolver.ClearAll()
}

// VerifyOrganizationAccess reports whether the user belongs to the
// given organization. Lookup failures deny.
func (s *AuthorizationService) VerifyOrganizationAccess(ctx context.Context, userID, organizationID string) bool {
	userOrg := s.resolver.GetUserOrganization(ctx, userID)
	return userOrg != "" && userOrg == organizationID
}

// FilterClaimsByOrganization keeps only the claims belonging to the
// user's organization. An unresolvable user filters everything out.
func (s *AuthorizationService) FilterClaimsByOrganization(ctx context.Context, userID string, claims []*model.Claim) []*model.Claim {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil || user == nil || user.OrganizationID == "" {
		return nil
	}
	filtered := make([]*model.Claim, 0, len(claims))
	for _, claim := range claims {
		if claim.OrganizationID == user.OrganizationID {
			filtered = append(filtered, claim)
		}
	}
	return filtered
}
