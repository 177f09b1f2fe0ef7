package services

import (
	"context"

	"house-inventory/internal/models"
	"house-inventory/internal/store"
	"house-inventory/internal/validators"
	"house-inventory/pkg/logger"
)

type houseService struct {
	store     *store.HouseStore
	validator validators.HouseValidator
}

func NewHouseService(s *store.HouseStore, validator validators.HouseValidator) HouseFacade {
	return &houseService{store: s, validator: validator}
}

func (s *houseService) Subscribe(ctx context.Context) <-chan store.HouseState {
	return s.store.Subscribe(ctx)
}

func (s *houseService) Load(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (store.HouseState, error) {
	p, err := s.checkPage(p, f)
	if err != nil {
		return store.HouseState{}, err
	}
	return s.store.Load(ctx, p, f)
}

func (s *houseService) LoadPage(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (store.HouseState, error) {
	p, err := s.checkPage(p, f)
	if err != nil {
		return store.HouseState{}, err
	}
	return s.store.LoadPage(ctx, p, f)
}

// checkPage defaults a missing page request to the first page and validates
// both inputs.
func (s *houseService) checkPage(p *models.PaginationRequest, f *models.HouseFilter) (*models.PaginationRequest, error) {
	if p == nil {
		p = &models.PaginationRequest{Page: models.DefaultPage, Limit: models.DefaultLimit}
	}
	if err := s.validator.ValidatePagination(p); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateFilter(f); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *houseService) LoadByID(ctx context.Context, id string) (models.House, error) {
	return s.store.LoadByID(ctx, id)
}

func (s *houseService) LoadModels(ctx context.Context) ([]models.HouseModel, error) {
	return s.store.LoadModels(ctx)
}

func (s *houseService) Create(ctx context.Context, house *models.House) (models.House, error) {
	if err := s.validator.ValidateCreate(house); err != nil {
		logger.GlobalLogger.Warnf("Rejected house create: error=%v", err)
		return models.House{}, err
	}
	return s.store.Create(ctx, *house)
}

func (s *houseService) Update(ctx context.Context, id string, house *models.House) (models.House, error) {
	if err := s.validator.ValidateUpdate(id, house); err != nil {
		logger.GlobalLogger.Warnf("Rejected house update: id=%s, error=%v", id, err)
		return models.House{}, err
	}
	return s.store.Update(ctx, id, *house)
}

func (s *houseService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *houseService) SetFilter(f *models.HouseFilter) error {
	if err := s.validator.ValidateFilter(f); err != nil {
		return err
	}
	s.store.SetFilter(f)
	return nil
}

func (s *houseService) SetPagination(p *models.PaginationRequest) error {
	if err := s.validator.ValidatePagination(p); err != nil {
		return err
	}
	s.store.SetPagination(p)
	return nil
}

func (s *houseService) Select(house *models.House) { s.store.Select(house) }
func (s *houseService) ClearSelected() { s.store.ClearSelected() }
func (s *houseService) ClearError() { s.store.ClearError() }
func (s *houseService) Reset() { s.store.Reset() }
func (s *houseService) ClearCache() { s.store.ClearCache() }
func (s *houseService) InvalidateCache(pattern string) int {
	return s.store.InvalidateCache(pattern)
}
