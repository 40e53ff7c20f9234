// Package session handles the decodable part of a bearer credential: the
// claims carried inside the token. The backend owns the signing key, so the
// client decodes without verifying the signature; authorization decisions
// based on these claims are always re-checked server-side.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"safeshare/internal/common"
)

// Role values issued by the backend.
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
	RoleGuest   = "guest"
)

// Claims is the canonical claims shape for SafeShare credentials.
type Claims struct {
	jwt.RegisteredClaims

	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	MFAVerified bool   `json:"mfa_verified"`
}

// Decode parses a bearer credential into Claims without verifying the
// signature. A token that cannot be parsed yields ErrMalformedCredential.
func Decode(credential string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedCredential, err)
	}
	return claims, nil
}

// IsExpired reports whether the credential's expiry lies strictly before
// now. A credential without an exp claim counts as expired (fail closed).
func (c *Claims) IsExpired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Time.Before(now)
}
