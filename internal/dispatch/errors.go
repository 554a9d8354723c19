package dispatch

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned for names absent from the catalog.
var ErrUnknownOperation = errors.New("unknown operation")

// AuthorizationDeniedError reports an operation refused locally because the
// session does not satisfy its requirement. No request was sent.
type AuthorizationDeniedError struct {
	Operation   string
	Requirement Requirement
	Context     AuthContext
}

func (e *AuthorizationDeniedError) Error() string {
	switch e.Requirement {
	case RequireCredential:
		return fmt.Sprintf("%s requires a logged-in session (currently %s)", e.Operation, e.Context)
	default:
		return fmt.Sprintf("%s requires role %s (currently %s)", e.Operation, e.Requirement, e.Context)
	}
}
