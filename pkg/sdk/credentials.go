package sdk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the role claim carried by a commerce API session.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ParseRole normalises a role string. Unknown values yield an error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleVendor:
		return RoleVendor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Credentials represents an authenticated session: an opaque bearer token and
// the role claim returned alongside it.
type Credentials struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// TokenClaims is the subset of JWT claims shopctl inspects.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// ErrOpaqueToken is returned when a token is not a decodable JWT.
var ErrOpaqueToken = errors.New("token is not a JWT")

// DecodeToken reads the claims of a JWT without verifying its signature.
// The client never holds the signing key; the server remains the authority.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if out.Subject == "" {
		if id, ok := claims["user_id"]; ok {
			out.Subject = fmt.Sprint(id)
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	return out, nil
}

// RoleFromToken extracts the role claim from a JWT access token.
func RoleFromToken(token string) (Role, error) {
	claims, err := DecodeToken(token)
	if err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", fmt.Errorf("token carries no role claim")
	}
	return ParseRole(claims.Role)
}
