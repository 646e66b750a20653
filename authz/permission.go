// authz/permission.go
package authz

// Permission is a fine-grained "resource.action" capability string.
// The catalog below is the single source of truth; other packages must
// reference these constants rather than re-deriving the strings.
type Permission string

// PermissionAll is the wildcard held only by Super Admin; it matches
// any requested permission.
const PermissionAll Permission = "*"

// Claim permissions
const (
	PermissionClaimsView    Permission = "claims.view"
	PermissionClaimsCreate  Permission = "claims.create"
	PermissionClaimsUpdate  Permission = "claims.update"
	PermissionClaimsDelete  Permission = "claims.delete"
	PermissionClaimsApprove Permission = "claims.approve"
)

// Client permissions
const (
	PermissionClientsView   Permission = "clients.view"
	PermissionClientsCreate Permission = "clients.create"
	PermissionClientsUpdate Permission = "clients.update"
	PermissionClientsDelete Permission = "clients.delete"
)

// Document permissions
const (
	PermissionDocumentsView   Permission = "documents.view"
	PermissionDocumentsUpload Permission = "documents.upload"
	PermissionDocumentsDelete Permission = "documents.delete"
)

// Task permissions
const (
	PermissionTasksView   Permission = "tasks.view"
	PermissionTasksCreate Permission = "tasks.create"
	PermissionTasksAssign Permission = "tasks.assign"
)

// User permissions
const (
	PermissionUsersView   Permission = "users.view"
	PermissionUsersCreate Permission = "users.create"
	PermissionUsersUpdate Permission = "users.update"
	PermissionUsersDelete Permission = "users.delete"
)

// Organization permissions
const (
	PermissionOrganizationView     Permission = "organization.view"
	PermissionOrganizationUpdate   Permission = "organization.update"
	PermissionOrganizationSettings Permission = "organization.settings"
)

// Analytics permissions
const (
	PermissionAnalyticsView   Permission = "analytics.view"
	PermissionAnalyticsExport Permission = "analytics.export"
)

// Workflow permissions
const (
	PermissionWorkflowsView    Permission = "workflows.view"
	PermissionWorkflowsCreate  Permission = "workflows.create"
	PermissionWorkflowsExecute Permission = "workflows.execute"
)

// PermissionSet is a set of permissions. The zero value is usable and
// empty. Membership checks special-case the wildcard.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(permissions ...Permission) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return set
}

// Contains reports whether the set grants the given permission, either
// exactly or via the wildcard.
func (s PermissionSet) Contains(permission Permission) bool {
	if _, ok := s[PermissionAll]; ok {
		return true
	}
	_, ok := s[permission]
	return ok
}

// ContainsAll reports whether the set grants every given permission.
func (s PermissionSet) ContainsAll(permissions []Permission) bool {
	if _, ok := s[PermissionAll]; ok {
		return true
	}
	for _, p := range permissions {
		if _, ok := s[p]; !ok {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the set grants at least one of the given
// permissions.
func (s PermissionSet) ContainsAny(permissions []Permission) bool {
	if _, ok := s[PermissionAll]; ok {
		return true
	}
	for _, p := range permissions {
		if _, ok := s[p]; ok {
			return true
		}
	}
	return false
}

// List returns the members of the set. Order is unspecified.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Strings returns the members as plain strings for audit records and
// API responses.
func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	return out
}

func (s PermissionSet) Len() int {
	return len(s)
}
