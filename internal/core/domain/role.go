package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of employee roles. There is no rank between them:
// access is decided by membership in an explicit allowed set.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Role sets guarding the employee operations. Reads need no set: any
// authenticated employee may list and get.
var (
	ManageEmployees = []Role{RoleAdmin, RoleManager}
	RemoveEmployees = []Role{RoleAdmin}
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// In reports whether r is a member of allowed. An empty allowed set admits every role.
func (r Role) In(allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// ParseRole converts user input into a Role. Empty input yields RoleEmployee.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleEmployee, nil
	}
	r := Role(strings.ToUpper(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: role must be one of ADMIN, MANAGER, EMPLOYEE", ErrValidation)
	}
	return r, nil
}
