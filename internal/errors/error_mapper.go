package errors

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgNetwork,
			Code:             ErrCodeNetwork,
			HTTPStatus:       http.StatusGatewayTimeout,
			OriginalError:    err,
		}
	case stderrors.Is(err, context.Canceled):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgCanceled,
			Code:             ErrCodeNetwork,
			HTTPStatus:       http.StatusServiceUnavailable,
			OriginalError:    err,
		}
	case strings.Contains(technicalMessage, "house not found"):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgHouseNotFound,
			Code:             ErrCodeHouseNotFound,
			HTTPStatus:       http.StatusNotFound,
			OriginalError:    err,
		}
	default:
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInternalError,
			Code:             ErrCodeInternal,
			HTTPStatus:       http.StatusInternalServerError,
			OriginalError:    err,
		}
	}
}

// Message reduces err to the string kept in state: the AppError's user
// message, else the error text, else fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if appErr.UserMessage != "" {
			return appErr.UserMessage
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized reports whether err carries a 401.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.HTTPStatus == http.StatusUnauthorized
}
