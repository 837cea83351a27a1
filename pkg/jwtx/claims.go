package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/homeeasy/portal/pkg/cryptox"
)

// DefaultSessionTTL is the default lifetime for a portal session cookie.
// Sessions survive browser restarts but not a week of inactivity.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrInvalidToken reports a cookie that failed signature or claim checks.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the portal session-cookie claims. The cookie carries only a
// reference to the server-side session record, never the upstream bearer
// token or profile data.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the server-side session record ID.
	SID string `json:"sid,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session cookie.
func NewSessionClaims(sid, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sid,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID: sid,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	return cryptox.MustGenerateToken(20)
}
