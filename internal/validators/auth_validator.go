package validators

import (
	"errors"
	"regexp"
	"strings"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authValidator struct{}

func NewAuthValidator() AuthValidator {
	return &authValidator{}
}

func (v *authValidator) ValidateLogin(creds *models.LoginCredentials) error {
	if creds == nil {
		return apperrors.NewValidationError("email and password are required", nil)
	}
	email := strings.TrimSpace(creds.Username)
	if email == "" || creds.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	if !isValidEmail(email) {
		return apperrors.NewValidationError("invalid email format", errors.New("username is not an email address"))
	}

	if len(creds.Password) < 6 || len(creds.Password) > 100 {
		return apperrors.NewValidationError("password must be between 6 and 100 characters", nil)
	}

	return nil
}

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
