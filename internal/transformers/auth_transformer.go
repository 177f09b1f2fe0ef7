package transformers

import (
	"fmt"
	"strings"

	"house-inventory/internal/models"
)

const authResourceType = "auth"

type authTransformer struct{}

func NewAuthTransformer() AuthTransformer {
	return &authTransformer{}
}

// TokenFromPayload accepts accessToken, token or attributes.token, in that
// order of preference.
func (t *authTransformer) TokenFromPayload(payload models.AuthTokenPayload) (models.AuthToken, error) {
	token := models.AuthToken{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    int64(payload.ExpiresIn),
		TokenType:    payload.TokenType,
	}
	if token.AccessToken == "" {
		token.AccessToken = payload.Token
	}
	if attrs := payload.Attributes; attrs != nil {
		if token.AccessToken == "" {
			token.AccessToken = attrs.Token
		}
		if token.RefreshToken == "" {
			token.RefreshToken = attrs.RefreshToken
		}
		if token.ExpiresIn == 0 {
			token.ExpiresIn = int64(attrs.ExpiresIn)
		}
	}
	token.AccessToken = strings.TrimSpace(token.AccessToken)
	if token.AccessToken == "" {
		return models.AuthToken{}, fmt.Errorf("token field is missing")
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	return token, nil
}

func (t *authTransformer) LoginRequest(creds models.LoginCredentials) models.LoginRequest {
	return models.LoginRequest{
		Data: models.LoginResource{
			Type: authResourceType,
			Attributes: models.LoginAttributes{
				Username: strings.TrimSpace(creds.Username),
				Password: creds.Password,
			},
		},
	}
}
