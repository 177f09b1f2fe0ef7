package utils

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "house-inventory/internal/errors"
	"house-inventory/pkg/logger"
)

// LogAndMapError logs technical details and returns a user-friendly AppError.
func LogAndMapError(err error, operation string, params ...interface{}) *apperrors.AppError {
	appErr := apperrors.MapError(err)
	if appErr == nil {
		return nil
	}

	var b strings.Builder
	for i := 0; i+1 < len(params); i += 2 {
		b.WriteString(", ")
		b.WriteString(toString(params[i]))
		b.WriteString("=")
		b.WriteString(toString(params[i+1]))
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.GlobalLogger.Errorf("%s failed: code=%s, technical_error=%s%s", operation, appErr.Code, appErr.TechnicalMessage, b.String())
	} else {
		logger.GlobalLogger.Warnf("%s failed: code=%s, technical_error=%s%s", operation, appErr.Code, appErr.TechnicalMessage, b.String())
	}
	return appErr
}

// WrapError adds context to an error while preserving the original.
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}

// IsRetryableError determines if an error is transient and worth retrying.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	appErr := apperrors.MapError(err)
	switch appErr.Code {
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeServiceUnavailable, apperrors.ErrCodeRateLimited:
		return true
	}
	msg := strings.ToLower(appErr.TechnicalMessage)
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection")
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
