package api

import (
	"context"
	"net/http"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// UserAPI groups the profile endpoints.
type UserAPI struct {
	client *Client
}

func NewUserAPI(client *Client) *UserAPI {
	return &UserAPI{client: client}
}

// Profile reads the current profile. Unlike the bootstrap verify call this
// one keeps the shared unauthorized handling: an expired session here should
// invalidate the client.
func (u *UserAPI) Profile(ctx context.Context) (*domain.UserInfo, error) {
	raw, err := u.client.Do(ctx, "/api/auth/verify", Options{})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, "profile")
}

// UpdateProfile sends arbitrary profile fields and returns the updated user.
func (u *UserAPI) UpdateProfile(ctx context.Context, fields map[string]any) (*domain.UserInfo, error) {
	raw, err := u.client.Do(ctx, "/api/users/profile", Options{
		Method: http.MethodPut,
		Body:   fields,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, "update profile")
}
