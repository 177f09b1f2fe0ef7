package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"house-inventory/pkg/logger"
)

// TokenSource is what the transport needs from the token store.
type TokenSource interface {
	AuthHeader(ctx context.Context) (string, bool)
	RefreshToken(ctx context.Context) (string, bool)
}

// DefaultSkipPaths are the endpoints that never carry a bearer token and
// never trigger a refresh.
var DefaultSkipPaths = []string{loginPath, loginPath + "/login", refreshPath}

// AuthTransport attaches the bearer token to outgoing requests and handles
// 401 responses: one refresh (shared by concurrent requests), one retry of
// the original request, and OnUnauthorized when that is not enough.
type AuthTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
	// Refresh exchanges the stored refresh token for a new access token.
	Refresh func(ctx context.Context) error
	// OnUnauthorized runs when a 401 cannot be recovered.
	OnUnauthorized func(ctx context.Context)
	SkipPaths      []string

	refreshGroup singleflight.Group
}

func NewAuthTransport(base http.RoundTripper, tokens TokenSource) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		Base:      base,
		Tokens:    tokens,
		SkipPaths: DefaultSkipPaths,
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if t.skipAuth(req.URL.Path) {
		return t.Base.RoundTrip(t.prepare(req, req.Body, "", requestID))
	}

	header, _ := t.Tokens.AuthHeader(ctx)
	resp, err := t.Base.RoundTrip(t.prepare(req, req.Body, header, requestID))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if _, ok := t.Tokens.RefreshToken(ctx); !ok || t.Refresh == nil {
		logger.GlobalLogger.Warnf("Unauthorized response without refresh token: method=%s, path=%s", req.Method, req.URL.Path)
		t.unauthorized(ctx)
		return resp, nil
	}

	body, err := rewind(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Cannot replay request after 401: method=%s, path=%s, error=%v", req.Method, req.URL.Path, err)
		t.unauthorized(ctx)
		return resp, nil
	}

	if err := t.refresh(ctx); err != nil {
		logger.GlobalLogger.Warnf("Token refresh failed: path=%s, error=%v", req.URL.Path, err)
		if body != nil {
			body.Close()
		}
		t.unauthorized(ctx)
		return resp, nil
	}

	drain(resp)
	header, _ = t.Tokens.AuthHeader(ctx)
	retry, err := t.Base.RoundTrip(t.prepare(req, body, header, requestID))
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		logger.GlobalLogger.Warnf("Request still unauthorized after refresh: method=%s, path=%s", req.Method, req.URL.Path)
		t.unauthorized(ctx)
	}
	return retry, nil
}

// refresh runs Refresh once for all requests that hit a 401 at the same time.
func (t *AuthTransport) refresh(ctx context.Context) error {
	_, err, shared := t.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, t.Refresh(ctx)
	})
	if shared {
		logger.GlobalLogger.Debugf("Joined in-flight token refresh")
	}
	return err
}

func (t *AuthTransport) unauthorized(ctx context.Context) {
	if t.OnUnauthorized != nil {
		t.OnUnauthorized(ctx)
	}
}

func (t *AuthTransport) skipAuth(path string) bool {
	for _, p := range t.SkipPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// prepare clones req with body and the headers every backend call carries.
// A retry reuses the request id of the first attempt.
func (t *AuthTransport) prepare(req *http.Request, body io.ReadCloser, authHeader, requestID string) *http.Request {
	out := req.Clone(req.Context())
	out.Body = body
	if authHeader != "" {
		out.Header.Set("Authorization", authHeader)
	} else {
		out.Header.Del("Authorization")
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		out.Header.Set("Content-Type", jsonAPIContentType)
	}
	out.Header.Set("X-Request-ID", requestID)
	return out
}

// rewind returns a fresh copy of the request body for a retry.
func rewind(req *http.Request) (io.ReadCloser, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req.Body, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}
	return req.GetBody()
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
