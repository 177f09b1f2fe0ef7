package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	Details          []string
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeAPI                = "API_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeHouseNotFound      = "HOUSE_NOT_FOUND"
	ErrCodeNoValidToken       = "NO_VALID_TOKEN"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInvalidParameters  = "INVALID_PARAMETERS"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewAPIError builds the error for a non-2xx backend response. The backend's
// error details, joined by newlines, become the user message.
func NewAPIError(status int, details []string, technical string) *AppError {
	appErr := &AppError{
		TechnicalMessage: technical,
		HTTPStatus:       status,
		Details:          details,
		UserMessage:      strings.Join(details, "\n"),
	}
	switch {
	case status == http.StatusUnauthorized:
		appErr.Code = ErrCodeUnauthorized
		if appErr.UserMessage == "" {
			appErr.UserMessage = MsgUnauthorized
		}
	case status == http.StatusNotFound:
		appErr.Code = ErrCodeNotFound
		if appErr.UserMessage == "" {
			appErr.UserMessage = MsgNotFound
		}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		appErr.Code = ErrCodeInvalidParameters
		if appErr.UserMessage == "" {
			appErr.UserMessage = MsgInvalidParameters
		}
	case status == http.StatusTooManyRequests:
		appErr.Code = ErrCodeRateLimited
		if appErr.UserMessage == "" {
			appErr.UserMessage = MsgRateLimited
		}
	case status >= http.StatusInternalServerError:
		appErr.Code = ErrCodeServiceUnavailable
		if appErr.UserMessage == "" {
			appErr.UserMessage = MsgServiceUnavailable
		}
	default:
		appErr.Code = ErrCodeAPI
		if appErr.UserMessage == "" {
			appErr.UserMessage = fmt.Sprintf("Request failed with status %d", status)
		}
	}
	return appErr
}

// NewNetworkError wraps a transport failure (no response from the backend).
func NewNetworkError(err error) *AppError {
	return &AppError{
		TechnicalMessage: err.Error(),
		UserMessage:      MsgNetwork,
		Code:             ErrCodeNetwork,
		HTTPStatus:       http.StatusBadGateway,
		OriginalError:    err,
	}
}

// NewValidationError reports input rejected before any request was made.
func NewValidationError(userMessage string, err error) *AppError {
	technical := userMessage
	if err != nil {
		technical = err.Error()
	}
	return &AppError{
		TechnicalMessage: technical,
		UserMessage:      userMessage,
		Code:             ErrCodeInvalidParameters,
		HTTPStatus:       http.StatusBadRequest,
		OriginalError:    err,
	}
}

// NewNoValidTokenError is returned when an operation needs a stored token and none is valid.
func NewNoValidTokenError() *AppError {
	return &AppError{
		TechnicalMessage: "no valid access token in storage",
		UserMessage:      MsgNoValidToken,
		Code:             ErrCodeNoValidToken,
		HTTPStatus:       http.StatusUnauthorized,
	}
}

// NewSessionExpiredError is returned when a token refresh fails.
func NewSessionExpiredError(err error) *AppError {
	technical := "token refresh failed"
	if err != nil {
		technical = fmt.Sprintf("token refresh failed: %v", err)
	}
	return &AppError{
		TechnicalMessage: technical,
		UserMessage:      MsgSessionExpired,
		Code:             ErrCodeSessionExpired,
		HTTPStatus:       http.StatusUnauthorized,
		OriginalError:    err,
	}
}
