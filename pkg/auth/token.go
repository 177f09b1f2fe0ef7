package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"house-inventory/internal/models"
	"house-inventory/pkg/logger"
)

// Persisted keys.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	TokenExpiryKey  = "token_expiry"
)

// DefaultTokenTTL applies when the backend gives no lifetime and the access
// token carries no exp claim.
const DefaultTokenTTL = 20 * time.Minute

// expiresIn values above this are absolute unix timestamps, not durations.
const absoluteExpiryThreshold = 1_000_000_000

// TokenService stores the token pair and answers whether it is still usable.
// Expiry is checked lazily: reading an expired access token removes it.
type TokenService struct {
	storage Storage
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

func NewTokenService(storage Storage, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{storage: storage, ttl: ttl, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// SetTokens persists the pair and returns the token with ExpiresAt filled in.
// An empty refresh token keeps the stored one.
func (s *TokenService) SetTokens(ctx context.Context, token models.AuthToken) (models.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token.ExpiresAt = s.expiryFor(token)
	if err := s.storage.Set(ctx, AccessTokenKey, token.AccessToken); err != nil {
		return token, err
	}
	if token.RefreshToken != "" {
		if err := s.storage.Set(ctx, RefreshTokenKey, token.RefreshToken); err != nil {
			return token, err
		}
	}
	expiry := strconv.FormatInt(token.ExpiresAt.UnixMilli(), 10)
	if err := s.storage.Set(ctx, TokenExpiryKey, expiry); err != nil {
		return token, err
	}
	return token, nil
}

// expiryFor prefers the backend's expiresIn, then the JWT exp claim, then the
// configured TTL.
func (s *TokenService) expiryFor(token models.AuthToken) time.Time {
	now := s.now()
	switch {
	case token.ExpiresIn > absoluteExpiryThreshold:
		return time.Unix(token.ExpiresIn, 0)
	case token.ExpiresIn > 0:
		return now.Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	if exp, ok := ExpiryFromJWT(token.AccessToken); ok {
		return exp
	}
	return now.Add(s.ttl)
}

// AccessToken returns the stored access token if it has not expired. An
// expired token is removed together with its expiry; the refresh token stays.
func (s *TokenService) AccessToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.get(ctx, AccessTokenKey)
	if !ok || token == "" {
		return "", false
	}
	expiry, ok := s.expiry(ctx)
	if !ok || !s.now().Before(expiry) {
		logger.GlobalLogger.Debugf("access token expired: expiry=%v", expiry)
		if err := s.storage.Delete(ctx, AccessTokenKey, TokenExpiryKey); err != nil {
			logger.GlobalLogger.Errorf("failed to remove expired access token: %v", err)
		}
		return "", false
	}
	return token, true
}

// RefreshToken returns the stored refresh token. A JWT refresh token whose
// exp has passed counts as absent; opaque tokens are valid while stored.
func (s *TokenService) RefreshToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.get(ctx, RefreshTokenKey)
	if !ok || token == "" {
		return "", false
	}
	if exp, isJWT := ExpiryFromJWT(token); isJWT && !s.now().Before(exp) {
		return "", false
	}
	return token, true
}

// ExpiresAt returns the stored access token expiry.
func (s *TokenService) ExpiresAt(ctx context.Context) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry(ctx)
}

// IsTokenExpired reports whether there is no usable access token.
func (s *TokenService) IsTokenExpired(ctx context.Context) bool {
	return !s.HasValidToken(ctx)
}

func (s *TokenService) HasValidToken(ctx context.Context) bool {
	_, ok := s.AccessToken(ctx)
	return ok
}

// AuthHeader returns "Bearer <token>" when a valid access token is stored.
func (s *TokenService) AuthHeader(ctx context.Context) (string, bool) {
	token, ok := s.AccessToken(ctx)
	if !ok {
		return "", false
	}
	return "Bearer " + token, true
}

// ClearTokens removes all three keys.
func (s *TokenService) ClearTokens(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(ctx, AccessTokenKey, RefreshTokenKey, TokenExpiryKey)
}

func (s *TokenService) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to read token storage key=%s, error=%v", key, err)
		return "", false
	}
	return v, ok
}

func (s *TokenService) expiry(ctx context.Context) (time.Time, bool) {
	raw, ok := s.get(ctx, TokenExpiryKey)
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.GlobalLogger.Errorf("invalid token expiry value=%q, error=%v", raw, err)
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
