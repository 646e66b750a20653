// authz/evaluator.go
package authz

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/claimguru/claimguard/audit"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
)

// Resource types with registered ownership checks. Permissions are
// derived as "<resourceType>.<action>", so these match the catalog
// prefixes in permission.go.
const (
	ResourceTypeClaims    = "claims"
	ResourceTypeDocuments = "documents"
	ResourceTypeUsers     = "users"
)

const auditWriteTimeout = 5 * time.Second

// OwnershipCheck decides whether a caller may touch one concrete
// resource instance, after the coarse permission check has already
// passed. Returning an error denies: authorization fails closed.
type OwnershipCheck func(ctx context.Context, caller *model.User, resourceID string) (bool, error)

// Evaluator combines the coarse role-derived permission check with
// resource-level ownership and organization scoping, and records every
// decision through the audit service.
type Evaluator struct {
	resolver  *Resolver
	identity  IdentityStore
	resources ResourceStore
	auditSvc  audit.Service

	checks map[string]OwnershipCheck
	// defaultCheck is applied to resource types without a registered
	// check. The shipped default allows (no resource-level restriction
	// defined for the type); it can be configured to deny instead.
	defaultCheck OwnershipCheck

	auditWG sync.WaitGroup
}

// EvaluatorOption customizes an Evaluator at construction time.
type EvaluatorOption func(*Evaluator)

// WithDefaultDeny makes unregistered resource types fail closed
// instead of passing through.
func WithDefaultDeny() EvaluatorOption {
	return func(e *Evaluator) {
		e.defaultCheck = denyUnregistered
	}
}

// WithOwnershipCheck registers (or replaces) the ownership check for a
// resource type. Adding a resource type is a data addition, not a new
// branch.
func WithOwnershipCheck(resourceType string, check OwnershipCheck) EvaluatorOption {
	return func(e *Evaluator) {
		e.checks[resourceType] = check
	}
}

func NewEvaluator(resolver *Resolver, identity IdentityStore, resources ResourceStore, auditSvc audit.Service, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		resolver:     resolver,
		identity:     identity,
		resources:    resources,
		auditSvc:     auditSvc,
		checks:       make(map[string]OwnershipCheck),
		defaultCheck: allowUnregistered,
	}
	e.checks[ResourceTypeClaims] = e.checkClaimAccess
	e.checks[ResourceTypeDocuments] = e.checkDocumentAccess
	e.checks[ResourceTypeUsers] = e.checkUserAccess
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func allowUnregistered(ctx context.Context, caller *model.User, resourceID string) (bool, error) {
	return true, nil
}

func denyUnregistered(ctx context.Context, caller *model.User, resourceID string) (bool, error) {
	return false, nil
}

// CanAccessResource is the authorization decision for one action on one
// resource instance. The caller only ever observes a boolean; every
// failure mode inside resolves to deny.
func (e *Evaluator) CanAccessResource(ctx context.Context, userID, resourceType, resourceID, action string) bool {
	permission := Permission(resourceType + "." + action)

	// Without the category permission there is nothing to scope: deny
	// before any resource lookup so a user who categorically cannot
	// touch the type never triggers a data fetch.
	if !e.resolver.HasPermission(ctx, userID, permission) {
		e.recordDecision(userID, action, resourceType, resourceID, false, map[string]any{
			"reason": "missing permission " + string(permission),
		})
		return false
	}

	caller, err := e.identity.GetUser(ctx, userID)
	if err != nil || caller == nil {
		logger.Warn("Caller lookup failed during resource access check",
			zap.Error(err),
			zap.String("userID", userID))
		e.recordDecision(userID, action, resourceType, resourceID, false, map[string]any{
			"reason": "caller lookup failed",
		})
		return false
	}

	check, ok := e.checks[resourceType]
	meta := map[string]any{}
	if !ok {
		check = e.defaultCheck
		meta["reason"] = "no ownership check registered for resource type"
	}

	allowed, err := check(ctx, caller, resourceID)
	if err != nil {
		logger.Warn("Ownership check failed, denying",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("resourceType", resourceType),
			zap.String("resourceID", resourceID))
		allowed = false
		meta["reason"] = err.Error()
	}

	e.recordDecision(userID, action, resourceType, resourceID, allowed, meta)
	return allowed
}

// checkClaimAccess scopes a claim by role: admins see everything,
// managers their organization, adjusters their assignments, clients
// their own claims.
func (e *Evaluator) checkClaimAccess(ctx context.Context, caller *model.User, claimID string) (bool, error) {
	role := ParseRole(caller.Role)
	if role == RoleSuperAdmin || role == RoleAdmin {
		return true, nil
	}

	claim, err := e.resources.GetClaim(ctx, claimID)
	if err != nil {
		return false, err
	}

	switch role {
	case RoleManager:
		return claim.OrganizationID != "" && claim.OrganizationID == caller.OrganizationID, nil
	case RoleAdjuster:
		return claim.AdjusterID == caller.ID, nil
	case RoleClient:
		return claim.ClientID == caller.ID, nil
	default:
		return false, nil
	}
}

// checkDocumentAccess resolves the parent claim and applies the claim
// rules; documents have no independent ownership model.
func (e *Evaluator) checkDocumentAccess(ctx context.Context, caller *model.User, documentID string) (bool, error) {
	document, err := e.resources.GetDocument(ctx, documentID)
	if err != nil {
		return false, err
	}
	return e.checkClaimAccess(ctx, caller, document.ClaimID)
}

// checkUserAccess scopes user records: self-access is always allowed,
// admins see everyone, managers their own organization.
func (e *Evaluator) checkUserAccess(ctx context.Context, caller *model.User, targetUserID string) (bool, error) {
	if targetUserID == caller.ID {
		return true, nil
	}

	role := ParseRole(caller.Role)
	if role == RoleSuperAdmin || role == RoleAdmin {
		return true, nil
	}
	if role != RoleManager {
		return false, nil
	}

	target, err := e.identity.GetUser(ctx, targetUserID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, nil
	}
	return target.OrganizationID != "" && target.OrganizationID == caller.OrganizationID, nil
}

// recordDecision appends an audit record without blocking the decision
// path. Audit failures are logged and swallowed; they never flip the
// returned decision.
func (e *Evaluator) recordDecision(userID, action, resourceType, resourceID string, success bool, metadata map[string]any) {
	if e.auditSvc == nil {
		return
	}
	rec := audit.Record{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Success:      success,
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}
	e.auditWG.Add(1)
	go func() {
		defer e.auditWG.Done()
		// Detached from the caller's context: a cancelled request may
		// still leave its computed decision in the audit trail.
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := e.auditSvc.LogDecision(ctx, rec); err != nil {
			logger.Warn("Failed to record authorization decision",
				zap.Error(err),
				zap.String("userID", rec.UserID),
				zap.String("resourceType", rec.ResourceType))
		}
	}()
}

// Flush waits for in-flight audit writes. Called on shutdown.
func (e *Evaluator) Flush() {
	e.auditWG.Wait()
}
