package ports

import (
	"context"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// AuthAPI is the slice of the backend the auth orchestrator depends on.
// Verify must opt out of the shared unauthorized handling: the call is itself
// the validation step and a 401 is an expected outcome, not a trigger.
type AuthAPI interface {
	Login(ctx context.Context, phone, password string) (*domain.UserInfo, error)
	Register(ctx context.Context, username, phone, password, referralCode string) (*domain.UserInfo, error)
	Verify(ctx context.Context) (*domain.UserInfo, error)
	Logout(ctx context.Context) error
}

// ProfileAPI reads the visitor's current profile. The backend serves the
// profile from the same endpoint that confirms sessions, so a successful read
// is also the freshest server-side view of the session.
type ProfileAPI interface {
	Profile(ctx context.Context) (*domain.UserInfo, error)
}
