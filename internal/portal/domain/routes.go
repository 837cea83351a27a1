package domain

import "strings"

// Well-known portal paths.
const (
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathForgotPassword = "/forgot-password"
	PathDashboard      = "/dashboard"
)

// AuthPagePaths are the public authentication pages. They are the only
// pages that receive the relaxed cross-origin-opener policy.
var AuthPagePaths = []string{PathLogin, PathRegister, PathForgotPassword}

// LandlordOnlyPrefixes are route sections reserved for landlord accounts.
// Order matches the sidebar; keep it stable.
var LandlordOnlyPrefixes = []string{
	"/properties",
	"/rooms",
	"/tenants",
	"/invites",
	"/payments",
}

// IsLandlordOnly reports whether path equals a landlord-only prefix or is
// nested under one. The separator check matters: "/room-types" must not
// match "/rooms".
func IsLandlordOnly(path string) bool {
	for _, prefix := range LandlordOnlyPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
