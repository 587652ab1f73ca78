package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the subset of claims the desk reads from an API token.
// The desk never holds the signing key, so tokens are inspected, not verified.
type SessionClaims struct {
	UserID string   `json:"user_id"`
	Role   string   `json:"role,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken decodes a JWT without verifying its signature.
// ok is false for opaque (non-JWT) tokens.
func InspectToken(token string) (*SessionClaims, bool) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// TokenExpired reports whether a JWT token carries an exp claim in the past.
// Opaque tokens and tokens without exp are never reported as expired; the
// server decides for those.
func TokenExpired(token string, now time.Time) bool {
	claims, ok := InspectToken(token)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
