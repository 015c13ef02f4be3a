// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import "github.com/danielhkuo/rnd-tracker/models"

// Permission is a class of routes gated by role.
type Permission string

const (
	PermRead    Permission = "read"
	PermWrite   Permission = "write"
	PermComment Permission = "comment"
	PermAdmin   Permission = "admin"
)

var rolePermissions = map[string][]Permission{
	models.RoleViewer:    {PermRead},
	models.RoleMember:    {PermRead, PermWrite},
	models.RoleExecutive: {PermRead, PermWrite, PermComment},
	models.RoleAdmin:     {PermRead, PermWrite, PermComment, PermAdmin},
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// Can reports whether role grants perm. Unknown roles grant nothing.
func Can(role string, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanModify reports whether a user may edit or delete a row owned by author.
func CanModify(role, userID, author string) bool {
	if role == models.RoleAdmin {
		return true
	}
	return Can(role, PermWrite) && userID == author
}
