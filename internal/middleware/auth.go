package middleware

import (
	"net/http"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/services"

	"github.com/gin-gonic/gin"
)

// RequireSession rejects requests while no user is logged in to the backend.
func RequireSession(auth services.AuthFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := auth.State()
		if !state.IsAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"message": apperrors.MsgUnauthorized,
					"code":    apperrors.ErrCodeUnauthorized,
				},
			})
			return
		}

		if state.User != nil {
			c.Set("user_id", state.User.ID)
			c.Set("email", state.User.Email)
		}
		c.Next()
	}
}
