package middleware

import (
	"house-inventory/internal/errors"
	"house-inventory/internal/utils"
	"house-inventory/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error attached by a handler into the standard
// error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := errors.MapError(err)

		if appErr.HTTPStatus >= 500 {
			logger.GlobalLogger.Errorf("Request failed: path=%s, method=%s, client_ip=%s, error=%s",
				c.Request.URL.Path,
				c.Request.Method,
				c.ClientIP(),
				appErr.TechnicalMessage)
		} else {
			logger.GlobalLogger.Warnf("Request rejected: path=%s, method=%s, status=%d, error=%s",
				c.Request.URL.Path,
				c.Request.Method,
				appErr.HTTPStatus,
				appErr.TechnicalMessage)
		}

		body := gin.H{
			"message": appErr.UserMessage,
			"code":    appErr.Code,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		if utils.IsRetryableError(err) {
			body["retryable"] = true
		}
		c.JSON(appErr.HTTPStatus, gin.H{"error": body})
	}
}
