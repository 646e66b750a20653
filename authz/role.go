// authz/role.go
package authz

// Role is a privilege tier in the claims CRM, totally ordered by level.
// The set is closed at compile time; strings coming from the identity
// store go through ParseRole, which maps anything unrecognized to
// RoleUnknown (a role holding no permissions).
type Role int

const (
	RoleUnknown Role = iota
	RoleClient
	RoleAdjuster
	RoleManager
	RoleAdmin
	RoleSuperAdmin
)

// Wire-level role names as stored on user records and audit entries.
const (
	RoleNameClient     = "Client"
	RoleNameAdjuster   = "Adjuster"
	RoleNameManager    = "Manager"
	RoleNameAdmin      = "Admin"
	RoleNameSuperAdmin = "Super Admin"
)

var roleNames = map[Role]string{
	RoleClient:     RoleNameClient,
	RoleAdjuster:   RoleNameAdjuster,
	RoleManager:    RoleNameManager,
	RoleAdmin:      RoleNameAdmin,
	RoleSuperAdmin: RoleNameSuperAdmin,
}

var rolesByName = map[string]Role{
	RoleNameClient:     RoleClient,
	RoleNameAdjuster:   RoleAdjuster,
	RoleNameManager:    RoleManager,
	RoleNameAdmin:      RoleAdmin,
	RoleNameSuperAdmin: RoleSuperAdmin,
}

// ParseRole translates a wire-level role name into a Role. Unrecognized
// names resolve to RoleUnknown rather than an error so that a bad value
// on a user record degrades to "no access" instead of aborting checks.
func ParseRole(name string) Role {
	if role, ok := rolesByName[name]; ok {
		return role
	}
	return RoleUnknown
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Level returns the privilege level of the role. Higher is more
// privileged; RoleUnknown sits below every real role.
func (r Role) Level() int {
	return int(r)
}

// AtLeast reports whether r is at or above the given role in the
// privilege order.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Roles returns every defined role in ascending privilege order.
func Roles() []Role {
	return []Role{RoleClient, RoleAdjuster, RoleManager, RoleAdmin, RoleSuperAdmin}
}
