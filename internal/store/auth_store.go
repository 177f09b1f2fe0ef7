package store

import (
	"context"
	"net/http"
	"sync"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/utils"
	"house-inventory/pkg/logger"
)

// AuthAPI is the backend surface the auth store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds models.LoginCredentials) (models.AuthToken, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (models.AuthToken, error)
	CurrentUser(ctx context.Context) (models.AuthUser, error)
}

// Tokens is the token store the auth store writes to.
type Tokens interface {
	SetTokens(ctx context.Context, token models.AuthToken) (models.AuthToken, error)
	RefreshToken(ctx context.Context) (string, bool)
	HasValidToken(ctx context.Context) bool
	ClearTokens(ctx context.Context) error
}

type AuthState struct {
	User            *models.AuthUser `json:"user"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	IsLoading       bool             `json:"isLoading"`
	Error           string           `json:"error"`
}

type AuthStore struct {
	mu     sync.Mutex
	state  AuthState
	api    AuthAPI
	tokens Tokens
	subs   *broadcaster[AuthState]
}

func NewAuthStore(api AuthAPI, tokens Tokens) *AuthStore {
	return &AuthStore{
		api:    api,
		tokens: tokens,
		subs:   newBroadcaster[AuthState](),
	}
}

func (s *AuthStore) Subscribe(ctx context.Context) <-chan AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.subscribe(ctx, s.state)
}

// State returns the current state under the store lock.
func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AuthStore) snapshot() AuthState {
	return s.State()
}

// set applies fn to a copy of the state, stores and publishes it, and
// returns the new state.
func (s *AuthStore) set(fn func(st *AuthState)) AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	fn(&next)
	s.state = next
	s.subs.publish(next)
	return next
}

// Init restores the session on startup when a valid token is stored.
func (s *AuthStore) Init(ctx context.Context) (AuthState, error) {
	if !s.tokens.HasValidToken(ctx) {
		return s.State(), nil
	}
	s.set(func(st *AuthState) { st.IsAuthenticated = true })
	return s.LoadCurrentUser(ctx)
}

// Login exchanges credentials for tokens, stores them and loads the user.
// The session stays authenticated only if the user could be loaded.
func (s *AuthStore) Login(ctx context.Context, creds models.LoginCredentials) (AuthState, error) {
	s.set(func(st *AuthState) {
		st.IsLoading = true
		st.Error = ""
	})

	token, err := s.api.Login(ctx, creds)
	if err == nil {
		if _, err = s.tokens.SetTokens(ctx, token); err != nil {
			err = utils.WrapError(err, "store tokens for %s", creds.Username)
		}
	}
	if err != nil {
		utils.LogAndMapError(err, "Login", "username", creds.Username)
		next := s.set(func(st *AuthState) {
			st.IsLoading = false
			st.IsAuthenticated = false
			st.User = nil
			st.Error = apperrors.Message(err, apperrors.MsgLoginFailed)
		})
		return next, err
	}

	s.set(func(st *AuthState) { st.IsAuthenticated = true })
	logger.GlobalLogger.Printf("Login succeeded: username=%s", creds.Username)
	return s.LoadCurrentUser(ctx)
}

// LoadCurrentUser fetches the profile of the logged-in user. A backend with
// no profile endpoint (404) leaves the session authenticated without a user.
// Any other failure, or a missing token, ends the authenticated state.
func (s *AuthStore) LoadCurrentUser(ctx context.Context) (AuthState, error) {
	if !s.tokens.HasValidToken(ctx) {
		err := apperrors.NewNoValidTokenError()
		next := s.set(func(st *AuthState) {
			st.User = nil
			st.IsAuthenticated = false
			st.IsLoading = false
			st.Error = err.UserMessage
		})
		return next, err
	}

	s.set(func(st *AuthState) {
		st.IsLoading = true
		st.Error = ""
	})
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		if apperrors.MapError(err).HTTPStatus == http.StatusNotFound {
			logger.GlobalLogger.Debugf("no current user endpoint, keeping session without profile")
			return s.set(func(st *AuthState) {
				st.User = nil
				st.IsLoading = false
			}), nil
		}
		utils.LogAndMapError(err, "Load current user")
		next := s.set(func(st *AuthState) {
			st.User = nil
			st.IsAuthenticated = false
			st.IsLoading = false
			st.Error = apperrors.Message(err, apperrors.MsgLoadUserFailed)
		})
		return next, err
	}

	return s.set(func(st *AuthState) {
		st.User = &user
		st.IsAuthenticated = true
		st.IsLoading = false
	}), nil
}

// Logout ends the session. The remote call is best-effort; local tokens and
// state are always cleared.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.set(func(st *AuthState) { st.IsLoading = true })
	if err := s.api.Logout(ctx); err != nil {
		logger.GlobalLogger.Warnf("Remote logout failed, clearing local session: error=%v", err)
	}
	s.clearSession(ctx, "")
	return nil
}

// Refresh exchanges the stored refresh token for a new pair. Any failure
// ends the session with "Session expired".
func (s *AuthStore) Refresh(ctx context.Context) (AuthState, error) {
	refreshToken, ok := s.tokens.RefreshToken(ctx)
	if !ok {
		err := apperrors.NewSessionExpiredError(nil)
		utils.RecordTokenRefresh(err)
		return s.clearSession(ctx, err.UserMessage), err
	}

	token, err := s.api.Refresh(ctx, refreshToken)
	if err == nil {
		_, err = s.tokens.SetTokens(ctx, token)
	}
	utils.RecordTokenRefresh(err)
	if err != nil {
		logger.GlobalLogger.Warnf("Token refresh failed, ending session: error=%v", err)
		expired := apperrors.NewSessionExpiredError(err)
		return s.clearSession(ctx, expired.UserMessage), expired
	}

	next := s.set(func(st *AuthState) {
		st.IsAuthenticated = true
		st.Error = ""
	})
	logger.GlobalLogger.Debugf("access token refreshed")
	return next, nil
}

// HandleUnauthorized ends the session after a 401 that could not be
// recovered. It makes no backend call.
func (s *AuthStore) HandleUnauthorized(ctx context.Context) {
	logger.GlobalLogger.Warnf("Unrecoverable 401, ending session")
	s.clearSession(ctx, apperrors.MsgUnauthorized)
}

func (s *AuthStore) ClearError() {
	s.set(func(st *AuthState) { st.Error = "" })
}

func (s *AuthStore) clearSession(ctx context.Context, errMsg string) AuthState {
	if err := s.tokens.ClearTokens(ctx); err != nil {
		logger.GlobalLogger.Errorf("Failed to clear stored tokens: error=%v", err)
	}
	return s.set(func(st *AuthState) {
		*st = AuthState{Error: errMsg}
	})
}
