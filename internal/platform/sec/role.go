// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: values read from storage or from a token are passed
// through [ParseRole] so an unknown string never reaches an authorization check.
type UserRole string

const (
	// Enrolled pupil, read access to their own establishment
	RoleStudent UserRole = "STUDENT"

	// Teaching staff of an establishment
	RoleTeacher UserRole = "TEACHER"

	// Administrative staff, manages a single establishment
	RoleAdmin UserRole = "ADMIN"

	// Platform operator, crosses establishment boundaries
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// ParseRole converts a raw string into a known [UserRole].
func ParseRole(raw string) (UserRole, error) {
	switch role := UserRole(raw); role {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
}

// Valid reports whether r is one of the declared roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// IsSuperAdmin reports whether r bypasses establishment scoping.
func (r UserRole) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	if !r.Valid() {
		return false
	}
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 40
	case RoleAdmin:
		return 30
	case RoleTeacher:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}
