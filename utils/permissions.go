package utils

import "strings"

// MatchesPermission reports whether the granted pattern covers required.
// Both use the resource:action form; either half of the pattern may be "*".
//
//	"*:*"            everything
//	"industry:*"     industry:read, industry:create, industry:update
//	"*:read"         read on every resource
//	"alert:create"   exact only
func MatchesPermission(granted, required string) bool {
	if granted == required {
		return required != ""
	}
	gRes, gAct, ok := strings.Cut(granted, ":")
	if !ok {
		return false
	}
	rRes, rAct, ok := strings.Cut(required, ":")
	if !ok || rRes == "" || rAct == "" {
		return false
	}
	return (gRes == "*" || gRes == rRes) && (gAct == "*" || gAct == rAct)
}

// AnyPermission reports whether any of granted covers required.
func AnyPermission(granted []string, required string) bool {
	for _, p := range granted {
		if MatchesPermission(p, required) {
			return true
		}
	}
	return false
}
