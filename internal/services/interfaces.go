package services

import (
	"context"

	"house-inventory/internal/models"
	"house-inventory/internal/store"
)

// HouseFacade is the only way callers reach the house store. Commands are
// validated before they reach the store. Loads return the state they
// produced; Subscribe follows the shared state.
type HouseFacade interface {
	Subscribe(ctx context.Context) <-chan store.HouseState

	// Load drives the shared state; a newer Load cancels an older one.
	Load(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (store.HouseState, error)
	// LoadPage serves one caller and never cancels other loads.
	LoadPage(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (store.HouseState, error)
	LoadByID(ctx context.Context, id string) (models.House, error)
	LoadModels(ctx context.Context) ([]models.HouseModel, error)
	Create(ctx context.Context, house *models.House) (models.House, error)
	Update(ctx context.Context, id string, house *models.House) (models.House, error)
	Delete(ctx context.Context, id string) error

	SetFilter(f *models.HouseFilter) error
	SetPagination(p *models.PaginationRequest) error
	Select(house *models.House)
	ClearSelected()
	ClearError()
	Reset()
	ClearCache()
	InvalidateCache(pattern string) int
}

type AuthFacade interface {
	State() store.AuthState
	Subscribe(ctx context.Context) <-chan store.AuthState
	IsAuthenticated() bool

	Init(ctx context.Context) (store.AuthState, error)
	Login(ctx context.Context, creds *models.LoginCredentials) (store.AuthState, error)
	LoadCurrentUser(ctx context.Context) (store.AuthState, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (store.AuthState, error)
	ClearError()
}
