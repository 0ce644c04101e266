package models

// Role is the closed set of staff roles recognised by the RBAC system.
type Role string

const (
	RoleDirector   Role = "DIRECTOR"
	RoleDeputy     Role = "DEPUTY"
	RoleAdmin      Role = "ADMIN"
	RoleTeacher    Role = "TEACHER"
	RoleAccountant Role = "ACCOUNTANT"
	RoleZavhoz     Role = "ZAVHOZ"
)

// RoleOverride is always authorised regardless of an endpoint's declared roles.
const RoleOverride = RoleDirector

// AllRoles lists every role in declaration order.
var AllRoles = []Role{RoleDirector, RoleDeputy, RoleAdmin, RoleTeacher, RoleAccountant, RoleZavhoz}

// ParseRole returns the role matching raw exactly.
func ParseRole(raw string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}
