package services

import (
	"context"

	"house-inventory/internal/models"
	"house-inventory/internal/store"
	"house-inventory/internal/validators"
)

type authService struct {
	store     *store.AuthStore
	validator validators.AuthValidator
}

func NewAuthService(s *store.AuthStore, validator validators.AuthValidator) AuthFacade {
	return &authService{store: s, validator: validator}
}

func (s *authService) State() store.AuthState {
	return s.store.State()
}

func (s *authService) Subscribe(ctx context.Context) <-chan store.AuthState {
	return s.store.Subscribe(ctx)
}

func (s *authService) IsAuthenticated() bool {
	return s.store.State().IsAuthenticated
}

func (s *authService) Init(ctx context.Context) (store.AuthState, error) {
	return s.store.Init(ctx)
}

func (s *authService) Login(ctx context.Context, creds *models.LoginCredentials) (store.AuthState, error) {
	if err := s.validator.ValidateLogin(creds); err != nil {
		return s.store.State(), err
	}
	return s.store.Login(ctx, *creds)
}

func (s *authService) LoadCurrentUser(ctx context.Context) (store.AuthState, error) {
	return s.store.LoadCurrentUser(ctx)
}

func (s *authService) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

func (s *authService) Refresh(ctx context.Context) (store.AuthState, error) {
	return s.store.Refresh(ctx)
}

func (s *authService) ClearError() {
	s.store.ClearError()
}
