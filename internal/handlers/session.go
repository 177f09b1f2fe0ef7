// handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/services"
)

type SessionHandler struct {
	auth services.AuthFacade
}

func NewSessionHandler(auth services.AuthFacade) *SessionHandler {
	return &SessionHandler{auth: auth}
}

// Login godoc
// @Summary Log in to the house backend
// @Description Exchange credentials for a token pair and load the current user
// @Tags Session
// @Accept json
// @Produce json
// @Param credentials body models.LoginCredentials true "Login credentials"
// @Success 200 {object} store.AuthState
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var creds models.LoginCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		_ = c.Error(apperrors.NewValidationError("email and password are required", err))
		return
	}

	state, err := h.auth.Login(c.Request.Context(), &creds)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetSession godoc
// @Summary Current session state
// @Tags Session
// @Produce json
// @Success 200 {object} store.AuthState
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.State())
}

// Logout godoc
// @Summary Log out
// @Description Ends the session locally even when the backend call fails
// @Tags Session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh godoc
// @Summary Refresh the access token
// @Tags Session
// @Produce json
// @Success 200 {object} store.AuthState
// @Failure 401 {object} map[string]interface{}
// @Router /session/refresh [post]
func (h *SessionHandler) Refresh(c *gin.Context) {
	state, err := h.auth.Refresh(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, state)
}
