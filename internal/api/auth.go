package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type AuthAPI struct{ c *Client }

func NewAuthAPI(c *Client) *AuthAPI { return &AuthAPI{c: c} }

// Login exchanges credentials for a token and stores it.
func (aa *AuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	req := dto.LoginRequest{Email: email, Password: password}
	var resp dto.AuthResponse
	if err := aa.c.Do(ctx, http.MethodPost, "/users/login", req, &resp); err != nil {
		return "", err
	}
	token := resp.SessionToken()
	if token == "" {
		return "", errors.New("api: login response missing token")
	}
	if aa.c.tokens != nil {
		if err := aa.c.tokens.Set(token); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (aa *AuthAPI) Register(ctx context.Context, fullName, email, password string) (string, error) {
	req := dto.RegisterRequest{FullName: fullName, Email: email, Password: password}
	var resp dto.AuthResponse
	if err := aa.c.Do(ctx, http.MethodPost, "/users/register", req, &resp); err != nil {
		return "", err
	}
	token := resp.SessionToken()
	if token != "" && aa.c.tokens != nil {
		if err := aa.c.tokens.Set(token); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (aa *AuthAPI) ForgotPassword(ctx context.Context, email string) error {
	req := dto.ForgotPasswordRequest{Email: email}
	return aa.c.Do(ctx, http.MethodPost, "/users/forgot-password", req, nil)
}
