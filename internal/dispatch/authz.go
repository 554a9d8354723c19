package dispatch

import (
	"fmt"

	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// Requirement is the condition an operation places on the current session.
type Requirement int

const (
	// RequireNone always permits the operation.
	RequireNone Requirement = iota
	// RequireCredential needs any logged-in session.
	RequireCredential
	// RequireAdmin needs a session with role admin.
	RequireAdmin
	// RequireVendorOrAdmin needs a session with role vendor or admin.
	RequireVendorOrAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireCredential:
		return "login"
	case RequireAdmin:
		return "admin"
	case RequireVendorOrAdmin:
		return "vendor|admin"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// allowedRoles lists the roles satisfying role-gated requirements.
var allowedRoles = map[Requirement]map[sdk.Role]struct{}{
	RequireAdmin:         {sdk.RoleAdmin: {}},
	RequireVendorOrAdmin: {sdk.RoleVendor: {}, sdk.RoleAdmin: {}},
}

// AuthContext is the authorization view of the session at dispatch time.
// It is derived, never stored.
type AuthContext struct {
	Authenticated bool
	Role          sdk.Role
}

// NewAuthContext derives an AuthContext from a session credential.
func NewAuthContext(creds sdk.Credentials, present bool) AuthContext {
	if !present || creds.Token == "" {
		return AuthContext{}
	}
	return AuthContext{Authenticated: true, Role: creds.Role}
}

func (a AuthContext) String() string {
	if !a.Authenticated {
		return "anonymous"
	}
	return "role " + string(a.Role)
}

// Authorize evaluates req against ac.
func Authorize(req Requirement, ac AuthContext) bool {
	switch req {
	case RequireNone:
		return true
	case RequireCredential:
		return ac.Authenticated
	}
	roles, ok := allowedRoles[req]
	if !ok || !ac.Authenticated {
		return false
	}
	_, allowed := roles[ac.Role]
	return allowed
}
