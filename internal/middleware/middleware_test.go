package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	if w := perform(r, http.MethodGet, "/", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", w.Code)
	}
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.getLimiter("10.0.0.1")
	if n := rl.evictIdle(time.Now().Add(-time.Minute)); n != 0 {
		t.Errorf("evicted %d fresh visitors", n)
	}
	if n := rl.evictIdle(time.Now().Add(time.Minute)); n != 1 {
		t.Errorf("evicted = %d, want 1", n)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := perform(r, http.MethodGet, "/", http.Header{RequestIDHeader: []string{"abc-123"}})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("echoed id = %q, want abc-123", got)
	}

	w = perform(r, http.MethodGet, "/", nil)
	if got := w.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("generated id = %q, want a uuid", got)
	}
	if w.Body.String() != w.Header().Get(RequestIDHeader) {
		t.Error("context id differs from header id")
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/api", func(c *gin.Context) {
		_ = c.Error(apperrors.NewAPIError(http.StatusUnprocessableEntity, []string{"price is invalid", "model is required"}, "422 from backend"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(context.DeadlineExceeded)
	})

	w := perform(r, http.MethodGet, "/api", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var body struct {
		Error struct {
			Message string   `json:"message"`
			Code    string   `json:"code"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Message != "price is invalid\nmodel is required" || len(body.Error.Details) != 2 {
		t.Errorf("body = %+v", body.Error)
	}
	if body.Error.Code != apperrors.ErrCodeInvalidParameters {
		t.Errorf("code = %q", body.Error.Code)
	}

	w = perform(r, http.MethodGet, "/plain", nil)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("deadline status = %d, want 504", w.Code)
	}
	var timeout struct {
		Error struct {
			Retryable bool `json:"retryable"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &timeout); err != nil {
		t.Fatal(err)
	}
	if !timeout.Error.Retryable {
		t.Error("timeout not marked retryable")
	}
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := perform(r, http.MethodGet, "/", nil)
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Strict-Transport-Security"} {
		if w.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}

type sessionStub struct {
	state store.AuthState
}

func (s *sessionStub) State() store.AuthState { return s.state }
func (s *sessionStub) Subscribe(ctx context.Context) <-chan store.AuthState {
	ch := make(chan store.AuthState, 1)
	ch <- s.state
	return ch
}
func (s *sessionStub) IsAuthenticated() bool { return s.state.IsAuthenticated }
func (s *sessionStub) Init(ctx context.Context) (store.AuthState, error) {
	return s.state, nil
}
func (s *sessionStub) Login(ctx context.Context, creds *models.LoginCredentials) (store.AuthState, error) {
	return s.state, nil
}
func (s *sessionStub) LoadCurrentUser(ctx context.Context) (store.AuthState, error) {
	return s.state, nil
}
func (s *sessionStub) Logout(ctx context.Context) error { return nil }
func (s *sessionStub) Refresh(ctx context.Context) (store.AuthState, error) {
	return s.state, nil
}
func (s *sessionStub) ClearError() {}

func TestRequireSession(t *testing.T) {
	session := &sessionStub{}
	r := gin.New()
	r.GET("/private", RequireSession(session), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})

	if w := perform(r, http.MethodGet, "/private", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	session.state = store.AuthState{IsAuthenticated: true, User: &models.AuthUser{ID: "u1"}}
	w := perform(r, http.MethodGet, "/private", nil)
	if w.Code != http.StatusOK || w.Body.String() != "u1" {
		t.Errorf("authenticated: status = %d, body = %q", w.Code, w.Body.String())
	}
}
