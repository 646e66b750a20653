// authz/resolver.go
package authz

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
)

// DefaultPermissionCacheTTL bounds how long a resolved permission set
// may be served without a fresh identity lookup.
const DefaultPermissionCacheTTL = 5 * time.Minute

type cacheEntry struct {
	permissions PermissionSet
	fetchedAt   time.Time
}

// Resolver resolves the effective permission set for a user, with a
// short-lived per-user cache in front of the identity store. The cache
// is owned exclusively by the Resolver; construct one per process and
// inject it wherever decisions are made.
type Resolver struct {
	identity IdentityStore
	ttl      time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewResolver(identity IdentityStore, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultPermissionCacheTTL
	}
	return &Resolver{
		identity: identity,
		ttl:      ttl,
		cache:    make(map[string]cacheEntry),
	}
}

// GetUserPermissions returns the effective permission set for a user.
// An unknown user, unknown role, or unavailable identity store all
// yield the empty set: permission resolution never fails open and
// never surfaces an error to the decision path.
func (r *Resolver) GetUserPermissions(ctx context.Context, userID string) PermissionSet {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < r.ttl {
		return entry.permissions
	}

	user, err := r.identity.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, cg_errors.ErrUserNotFound) {
			logger.Warn("Failed to resolve user for permission lookup",
				zap.Error(err),
				zap.String("userID", userID))
		}
		return PermissionSet{}
	}
	if user == nil {
		return PermissionSet{}
	}

	permissions := PermissionsForRoleName(user.Role)

	// Same-user races are resolved by last write wins; every write
	// within the TTL window computes the same value.
	r.mu.Lock()
	r.cache[userID] = cacheEntry{permissions: permissions, fetchedAt: time.Now()}
	r.mu.Unlock()

	return permissions
}

// HasPermission reports whether the user holds the given permission,
// exactly or via the Super Admin wildcard.
func (r *Resolver) HasPermission(ctx context.Context, userID string, permission Permission) bool {
	return r.GetUserPermissions(ctx, userID).Contains(permission)
}

// HasAllPermissions reports whether the user holds every listed
// permission.
func (r *Resolver) HasAllPermissions(ctx context.Context, userID string, permissions []Permission) bool {
	return r.GetUserPermissions(ctx, userID).ContainsAll(permissions)
}

// HasAnyPermission reports whether the user holds at least one of the
// listed permissions.
func (r *Resolver) HasAnyPermission(ctx context.Context, userID string, permissions []Permission) bool {
	return r.GetUserPermissions(ctx, userID).ContainsAny(permissions)
}

// GetUserRole returns the user's role, or RoleUnknown when the user
// does not exist or the identity store is unavailable.
func (r *Resolver) GetUserRole(ctx context.Context, userID string) Role {
	user, err := r.identity.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, cg_errors.ErrUserNotFound) {
			logger.Warn("Failed to resolve user role",
				zap.Error(err),
				zap.String("userID", userID))
		}
		return RoleUnknown
	}
	if user == nil {
		return RoleUnknown
	}
	return ParseRole(user.Role)
}

// GetUserOrganization returns the user's organization ID, or "" when
// the user does not exist or has no organization.
func (r *Resolver) GetUserOrganization(ctx context.Context, userID string) string {
	user, err := r.identity.GetUser(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.OrganizationID
}

// HasRole reports whether the user holds exactly the given role.
func (r *Resolver) HasRole(ctx context.Context, userID string, role Role) bool {
	return r.GetUserRole(ctx, userID) == role
}

// HasMinimumRole reports whether the user's role is at or above the
// given role in the privilege order.
func (r *Resolver) HasMinimumRole(ctx context.Context, userID string, min Role) bool {
	return r.GetUserRole(ctx, userID).AtLeast(min)
}

// ClearCache drops the cached permission set for one user. Call it
// after any role change so stale privileges cannot outlive the change.
func (r *Resolver) ClearCache(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
	logger.Debug("Permission cache entry cleared", zap.String("userID", userID))
}

// ClearAll drops every cached permission set.
func (r *Resolver) ClearAll() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
	logger.Debug("Permission cache cleared")
}
