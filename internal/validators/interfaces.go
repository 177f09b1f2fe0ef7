package validators

import (
	"house-inventory/internal/models"
)

type HouseValidator interface {
	ValidateCreate(house *models.House) error
	ValidateUpdate(id string, house *models.House) error
	ValidateFilter(filter *models.HouseFilter) error
	ValidatePagination(p *models.PaginationRequest) error
}

type AuthValidator interface {
	ValidateLogin(creds *models.LoginCredentials) error
}
