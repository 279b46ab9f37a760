package domain

import "strings"

// Role is the closed set of roles a User can hold.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var roleNames = map[Role]string{
	RoleAdmin:    "Admin",
	RoleEmployee: "Employee",
}

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployee}
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", Validationf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Value is the identifier used on the wire and in storage.
func (r Role) Value() string { return string(r) }

// Name is the human readable label.
func (r Role) Name() string { return roleNames[r] }
