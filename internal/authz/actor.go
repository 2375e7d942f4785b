package authz

import "fmt"

// Role is the closed set of access tiers. Stored lowercase in the
// employees table; ParseRole is the only way values enter the program.
type Role string

const (
	RoleSales   Role = "sales"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string loaded from storage.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSales, RoleManager, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("authz: unknown role %q", s)
	}
}

// Valid reports whether the role is one of the three known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleSales, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller. Resolved fresh from the session on
// every request and passed explicitly into each policy check; the
// policy never reads ambient state.
type Actor struct {
	EmployeeID int64
	Role       Role
	// ManagerID is the actor's own manager. Carried on the identity but
	// not consulted by any current rule.
	ManagerID *int64
}
