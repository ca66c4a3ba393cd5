package models

import (
	"fmt"
	"strings"
)

// Role is the closed business classification of a staff account.
type Role string

const (
	RoleManagement Role = "management"
	RoleSales      Role = "sales"
	RoleSupport    Role = "support"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleManagement, RoleSales, RoleSupport}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManagement, RoleSales, RoleSupport:
		return true
	}
	return false
}

// Label is the team name shown to operators.
func (r Role) Label() string {
	switch r {
	case RoleManagement:
		return "management team"
	case RoleSales:
		return "sales team"
	case RoleSupport:
		return "support team"
	}
	return "unknown"
}

// ParseRole accepts the role value or its team label, case-insensitively.
func ParseRole(s string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles() {
		if v == string(r) || v == r.Label() {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}
