package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"house-inventory/internal/models"
	"house-inventory/internal/transformers"
	"house-inventory/internal/utils"
	"house-inventory/pkg/logger"
)

const (
	housesPath      = "/api/houses"
	houseRoute      = "/api/houses/:id"
	houseModelsPath = "/api/house_models"
)

// HouseAPI wraps the house and house model endpoints and returns domain models.
type HouseAPI struct {
	client      *Client
	transformer transformers.HouseTransformer
}

func NewHouseAPI(client *Client, transformer transformers.HouseTransformer) *HouseAPI {
	return &HouseAPI{client: client, transformer: transformer}
}

// GetHouses fetches one page of houses.
func (a *HouseAPI) GetHouses(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (models.APIResponse[[]models.House], error) {
	var raw models.APIResponse[[]models.HouseResource]
	err := a.client.do(ctx, request{
		Method: http.MethodGet,
		Path:   housesPath,
		Route:  housesPath,
		Query:  utils.BuildQuery(p, f),
		Out:    &raw,
	})
	if err != nil {
		return models.APIResponse[[]models.House]{}, err
	}
	return models.APIResponse[[]models.House]{
		Data: a.transformer.HousesFromResources(raw.Data),
		Meta: raw.Meta,
	}, nil
}

// GetHouseModels fetches the model catalog.
func (a *HouseAPI) GetHouseModels(ctx context.Context) (models.APIResponse[[]models.HouseModel], error) {
	var raw models.APIResponse[[]models.HouseModelResource]
	err := a.client.do(ctx, request{
		Method: http.MethodGet,
		Path:   houseModelsPath,
		Route:  houseModelsPath,
		Out:    &raw,
	})
	if err != nil {
		return models.APIResponse[[]models.HouseModel]{}, err
	}
	return models.APIResponse[[]models.HouseModel]{
		Data: a.transformer.ModelsFromResources(raw.Data),
		Meta: raw.Meta,
	}, nil
}

// GetHousesAndModels fetches the catalog first, then the houses page.
func (a *HouseAPI) GetHousesAndModels(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (models.HousesAndModels, error) {
	catalog, err := a.GetHouseModels(ctx)
	if err != nil {
		return models.HousesAndModels{}, err
	}
	houses, err := a.GetHouses(ctx, p, f)
	if err != nil {
		return models.HousesAndModels{}, err
	}
	return models.HousesAndModels{Models: catalog, Houses: houses}, nil
}

func (a *HouseAPI) GetHouseByID(ctx context.Context, id string) (models.House, error) {
	var raw models.APIResponse[*models.HouseResource]
	err := a.client.do(ctx, request{
		Method: http.MethodGet,
		Path:   housesPath + "/" + url.PathEscape(id),
		Route:  houseRoute,
		Out:    &raw,
	})
	if err != nil {
		return models.House{}, err
	}
	if raw.Data == nil {
		return models.House{}, fmt.Errorf("house not found: id=%s", id)
	}
	return a.transformer.HouseFromResource(*raw.Data), nil
}

func (a *HouseAPI) CreateHouse(ctx context.Context, house models.House) (models.House, error) {
	res := a.transformer.HouseToResource(house)
	res.ID = ""
	var raw models.APIResponse[*models.HouseResource]
	err := a.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   housesPath,
		Route:  housesPath,
		Body:   models.Document[models.HouseResource]{Data: res},
		Out:    &raw,
	})
	if err != nil {
		return models.House{}, err
	}
	if raw.Data == nil {
		logger.GlobalLogger.Errorf("Create house returned no data: house_number=%s", house.HouseNumber)
		return models.House{}, fmt.Errorf("failed to create house: empty response")
	}
	return a.transformer.HouseFromResource(*raw.Data), nil
}

func (a *HouseAPI) UpdateHouse(ctx context.Context, id string, house models.House) (models.House, error) {
	house.ID = id
	var raw models.APIResponse[*models.HouseResource]
	err := a.client.do(ctx, request{
		Method: http.MethodPut,
		Path:   housesPath + "/" + url.PathEscape(id),
		Route:  houseRoute,
		Body:   models.Document[models.HouseResource]{Data: a.transformer.HouseToResource(house)},
		Out:    &raw,
	})
	if err != nil {
		return models.House{}, err
	}
	if raw.Data == nil {
		return models.House{}, fmt.Errorf("failed to update house: empty response, id=%s", id)
	}
	return a.transformer.HouseFromResource(*raw.Data), nil
}

func (a *HouseAPI) DeleteHouse(ctx context.Context, id string) error {
	return a.client.do(ctx, request{
		Method: http.MethodDelete,
		Path:   housesPath + "/" + url.PathEscape(id),
		Route:  houseRoute,
	})
}
