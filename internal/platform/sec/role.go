// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage courses and view every student record
	RoleStaff UserRole = "staff"

	// Default role for accounts provisioned through the Azure AD login
	RoleStudent UserRole = "student"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleStaff:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}

// MaxLevel returns the highest-privilege role in the set, falling back to
// RoleStudent for an empty set.
func MaxLevel(roles []UserRole) UserRole {
	best := RoleStudent
	for _, role := range roles {
		if role.AtLeast(best) {
			best = role
		}
	}
	return best
}
