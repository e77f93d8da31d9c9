package middleware

import (
	"net/http"

	"p9e.in/riverai/config"
)

// RequirePermission checks the caller's role against config.RolePermissions.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !config.RoleHasPermission(claims.Role, permission) {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserPermissions returns the permission patterns of the caller's role.
func GetUserPermissions(r *http.Request) []string {
	claims := GetClaims(r)
	if claims == nil {
		return nil
	}
	return config.RolePermissions[claims.Role]
}
