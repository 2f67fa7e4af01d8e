package models

// Role is the closed set of account roles. Handlers gate access through
// Role values instead of comparing raw strings from the token.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleMechanic  Role = "mechanic"
	RoleSupplier  Role = "supplier"
)

// ParseRole maps a stored role string onto the closed set. Unknown or
// empty values fall back to RoleUser, matching the schema default.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSecretary, RoleMechanic, RoleSupplier:
		return Role(s)
	default:
		return RoleUser
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSecretary, RoleMechanic, RoleSupplier:
		return true
	}
	return false
}

// Can reports whether r is contained in allowed.
func (r Role) Can(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
