package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// AuthAPI groups the authentication endpoints. Login, register and verify all
// opt out of the shared unauthorized handling: for them a 401 means "wrong
// credentials" or "session rejected", not "session expired mid-flight".
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type userEnvelope struct {
	User *domain.UserInfo `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, phone, password string) (*domain.UserInfo, error) {
	raw, err := a.client.Do(ctx, "/api/auth/login", Options{
		Method:   http.MethodPost,
		Body:     loginRequest{Phone: phone, Password: password},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, "login")
}

func (a *AuthAPI) Register(ctx context.Context, username, phone, password, referralCode string) (*domain.UserInfo, error) {
	raw, err := a.client.Do(ctx, "/api/auth/register", Options{
		Method:   http.MethodPost,
		Body:     registerRequest{Username: username, Phone: phone, Password: password, ReferralCode: referralCode},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, "register")
}

func (a *AuthAPI) Verify(ctx context.Context) (*domain.UserInfo, error) {
	raw, err := a.client.Do(ctx, "/api/auth/verify", Options{SkipAuth: true})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, "verify")
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.client.Do(ctx, "/api/auth/logout", Options{Method: http.MethodPost})
	return err
}

func decodeUser(raw json.RawMessage, op string) (*domain.UserInfo, error) {
	var env userEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if env.User == nil {
		return nil, fmt.Errorf("%s: response missing user", op)
	}
	return env.User, nil
}
