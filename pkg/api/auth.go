package api

import (
	"context"
	"net/http"

	"house-inventory/internal/models"
	"house-inventory/internal/transformers"
	"house-inventory/internal/utils"
)

const (
	loginPath   = "/api/auth"
	logoutPath  = "/api/auth/logout"
	refreshPath = "/api/auth/refresh"
	mePath      = "/api/auth/me"
)

// AuthAPI wraps the authentication endpoints.
type AuthAPI struct {
	client      *Client
	transformer transformers.AuthTransformer
}

func NewAuthAPI(client *Client, transformer transformers.AuthTransformer) *AuthAPI {
	return &AuthAPI{client: client, transformer: transformer}
}

func (a *AuthAPI) Login(ctx context.Context, creds models.LoginCredentials) (models.AuthToken, error) {
	var raw models.APIResponse[models.AuthTokenPayload]
	err := a.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   loginPath,
		Route:  loginPath,
		Body:   a.transformer.LoginRequest(creds),
		Out:    &raw,
	})
	if err != nil {
		return models.AuthToken{}, err
	}
	token, err := a.transformer.TokenFromPayload(raw.Data)
	if err != nil {
		return models.AuthToken{}, utils.WrapError(err, "login failed")
	}
	return token, nil
}

// Logout tells the backend to end the session. Callers treat failure as
// non-fatal.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   logoutPath,
		Route:  logoutPath,
		Body:   struct{}{},
	})
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (models.AuthToken, error) {
	var raw models.APIResponse[models.AuthTokenPayload]
	err := a.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Route:  refreshPath,
		Body:   models.RefreshRequest{RefreshToken: refreshToken},
		Out:    &raw,
	})
	if err != nil {
		return models.AuthToken{}, err
	}
	token, err := a.transformer.TokenFromPayload(raw.Data)
	if err != nil {
		return models.AuthToken{}, utils.WrapError(err, "token refresh failed")
	}
	return token, nil
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (models.AuthUser, error) {
	var raw models.APIResponse[models.AuthUser]
	err := a.client.do(ctx, request{
		Method: http.MethodGet,
		Path:   mePath,
		Route:  mePath,
		Out:    &raw,
	})
	if err != nil {
		return models.AuthUser{}, err
	}
	return raw.Data, nil
}
