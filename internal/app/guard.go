package app

import (
	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// StateProvider reports the authentication lifecycle state.
type StateProvider interface {
	State() domain.AuthState
}

// Decision is the guard's verdict for a protected route.
type Decision int

const (
	// Allow renders the requested route.
	Allow Decision = iota
	// Wait keeps showing the loading indication; bootstrap has not resolved.
	Wait
	// RedirectLogin replaces the current location with the login entry point.
	RedirectLogin
)

// Guard gates protected routes on the authentication state.
type Guard struct {
	auth StateProvider
}

// NewGuard panics when wired without a state provider. A guard that cannot
// see session state is a programming error, not a runtime condition.
func NewGuard(auth StateProvider) *Guard {
	if auth == nil {
		panic("app: Guard constructed without an auth state provider")
	}
	return &Guard{auth: auth}
}

func (g *Guard) Check() Decision {
	switch g.auth.State() {
	case domain.StateAuthenticated:
		return Allow
	case domain.StateLoading:
		return Wait
	default:
		return RedirectLogin
	}
}
