// authz/registry.go
package authz

// permissionGrants is the authorization matrix: for each permission,
// the lowest roles allowed to hold it. Super Admin is intentionally
// absent; it is granted the wildcard below and never enumerated here.
var permissionGrants = map[Permission][]Role{
	PermissionClaimsView:    {RoleClient, RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClaimsCreate:  {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClaimsUpdate:  {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClaimsDelete:  {RoleManager, RoleAdmin},
	PermissionClaimsApprove: {RoleManager, RoleAdmin},

	PermissionClientsView:   {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClientsCreate: {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClientsUpdate: {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionClientsDelete: {RoleManager, RoleAdmin},

	PermissionDocumentsView:   {RoleClient, RoleAdjuster, RoleManager, RoleAdmin},
	PermissionDocumentsUpload: {RoleClient, RoleAdjuster, RoleManager, RoleAdmin},
	PermissionDocumentsDelete: {RoleAdjuster, RoleManager, RoleAdmin},

	PermissionTasksView:   {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionTasksCreate: {RoleAdjuster, RoleManager, RoleAdmin},
	PermissionTasksAssign: {RoleManager, RoleAdmin},

	PermissionUsersView:   {RoleManager, RoleAdmin},
	PermissionUsersCreate: {RoleAdmin},
	PermissionUsersUpdate: {RoleAdmin},
	PermissionUsersDelete: {},

	PermissionOrganizationView:     {RoleManager, RoleAdmin},
	PermissionOrganizationUpdate:   {RoleAdmin},
	PermissionOrganizationSettings: {},

	PermissionAnalyticsView:   {RoleManager, RoleAdmin},
	PermissionAnalyticsExport: {RoleAdmin},

	PermissionWorkflowsView:    {RoleManager, RoleAdmin},
	PermissionWorkflowsCreate:  {RoleAdmin},
	PermissionWorkflowsExecute: {RoleAdmin},
}

// rolePermissions is the inverted matrix, built once at package init.
var rolePermissions map[Role]PermissionSet

func init() {
	rolePermissions = make(map[Role]PermissionSet, len(roleNames))
	for _, role := range Roles() {
		rolePermissions[role] = make(PermissionSet)
	}
	for permission, roles := range permissionGrants {
		for _, role := range roles {
			rolePermissions[role][permission] = struct{}{}
		}
	}
	// Super Admin holds every permission, present and future.
	rolePermissions[RoleSuperAdmin] = NewPermissionSet(PermissionAll)
}

// PermissionsForRole returns the permission set granted to a role. An
// unrecognized role yields the empty set, never an error: callers must
// treat "unknown role" as "no access".
func PermissionsForRole(role Role) PermissionSet {
	set, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}
	return set
}

// PermissionsForRoleName is the wire-level variant, for role names
// arriving as raw strings from the identity store.
func PermissionsForRoleName(name string) PermissionSet {
	return PermissionsForRole(ParseRole(name))
}

// Catalog returns every permission defined in the matrix. Order is
// unspecified.
func Catalog() []Permission {
	out := make([]Permission, 0, len(permissionGrants))
	for p := range permissionGrants {
		out = append(out, p)
	}
	return out
}
