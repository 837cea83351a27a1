package domain

import "time"

// Role is the portal-visible role of a user. It is fixed for the lifetime
// of a session and is the sole input to navigation and route gating.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// Valid reports whether the role is one the portal knows how to render.
func (r Role) Valid() bool {
	return r == RoleLandlord || r == RoleTenant
}

// UserProfile is the cached profile of the signed-in user.
type UserProfile struct {
	ID       string
	FullName string
	Email    string
	Role     Role
}

// IsZero reports whether the profile is absent.
func (p UserProfile) IsZero() bool {
	return p.ID == ""
}

// Session is the resolved browser session: the upstream bearer token plus
// the cached user profile. Either part missing means "unauthenticated" -
// a token alone is never sufficient.
type Session struct {
	ID        string // server-side session record ID, empty when absent
	Token     string // upstream bearer token, opaque to the portal
	User      UserProfile
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries both a token and a
// usable profile.
func (s Session) Authenticated() bool {
	return s.Token != "" && !s.User.IsZero() && s.User.Role.Valid()
}

// AuthState is the tri-state outcome of resolving a request's session.
// Resolution happens exactly once per request and only ever moves from
// AuthLoading to one of the terminal states, never back.
type AuthState int

const (
	AuthLoading AuthState = iota
	AuthAuthenticated
	AuthUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthLoading:
		return "loading"
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}
