package transformers

import (
	"house-inventory/internal/models"
)

// HouseTransformer maps between the snake_case JSON:API resources of the
// backend and the domain models.
type HouseTransformer interface {
	HouseFromResource(res models.HouseResource) models.House
	HouseToResource(house models.House) models.HouseResource
	HousesFromResources(res []models.HouseResource) []models.House
	ModelFromResource(res models.HouseModelResource) models.HouseModel
	ModelsFromResources(res []models.HouseModelResource) []models.HouseModel
}

type AuthTransformer interface {
	TokenFromPayload(payload models.AuthTokenPayload) (models.AuthToken, error)
	LoginRequest(creds models.LoginCredentials) models.LoginRequest
}
