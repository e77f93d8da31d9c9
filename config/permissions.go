package config

import (
	"p9e.in/riverai/models"
	"p9e.in/riverai/utils"
)

// RolePermissions maps each role to permission patterns in the
// resource:action form understood by utils.MatchesPermission.
var RolePermissions = map[string][]string{
	models.RoleAdmin: {"*:*"},
	models.RolePCB: {
		"industry:*",
		"alert:*",
		"sample:read",
		"email:*",
		"report:read",
		"sector:read",
	},
	models.RoleIndustryOwner: {
		"industry:read",
		"sample:*",
		"alert:read",
		"report:read",
		"sector:read",
	},
}

// RoleHasPermission reports whether any pattern of role grants required.
func RoleHasPermission(role, required string) bool {
	return utils.AnyPermission(RolePermissions[role], required)
}
