package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AuthToken is the token pair issued by the backend. ExpiresAt is filled
// in when the token is stored.
type AuthToken struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresIn    int64     `json:"expiresIn,omitempty"`
	TokenType    string    `json:"tokenType,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// FlexInt decodes a JSON number or numeric string.
type FlexInt int64

var _ json.Unmarshaler = (*FlexInt)(nil)

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid integer %q: %v", s, err)
		}
		n = int64(fl)
	}
	*f = FlexInt(n)
	return nil
}

// AuthTokenPayload is the data block of a login or refresh response. The
// access token arrives as accessToken, token or attributes.token depending
// on the backend version.
type AuthTokenPayload struct {
	AccessToken  string  `json:"accessToken"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    FlexInt `json:"expiresIn"`
	TokenType    string  `json:"tokenType"`
	Attributes   *struct {
		Token        string  `json:"token"`
		RefreshToken string  `json:"refreshToken"`
		ExpiresIn    FlexInt `json:"expiresIn"`
	} `json:"attributes,omitempty"`
}

type AuthUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	IsActive  bool     `json:"isActive"`
}

func (u AuthUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u AuthUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoginCredentials are validated before they are sent.
type LoginCredentials struct {
	Username   string `json:"username" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type LoginAttributes struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResource struct {
	Type       string          `json:"type"`
	Attributes LoginAttributes `json:"attributes"`
}

// LoginRequest is {"data":{"type":"auth","attributes":{...}}}.
type LoginRequest = Document[LoginResource]

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
