package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
)

const maxPageSize = 100

type houseValidator struct {
	validate *validator.Validate
}

func NewHouseValidator() HouseValidator {
	return &houseValidator{validate: validator.New()}
}

func (v *houseValidator) ValidateCreate(house *models.House) error {
	if house == nil {
		return apperrors.NewValidationError("house is required", nil)
	}
	if house.ID != "" {
		return apperrors.NewValidationError("a new house must not carry an id", nil)
	}
	return v.validateHouse(house)
}

func (v *houseValidator) ValidateUpdate(id string, house *models.House) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("house id is required", nil)
	}
	if house == nil {
		return apperrors.NewValidationError("house is required", nil)
	}
	if house.ID != "" && house.ID != id {
		return apperrors.NewValidationError("house id does not match the request", fmt.Errorf("body id %q, path id %q", house.ID, id))
	}
	return v.validateHouse(house)
}

func (v *houseValidator) ValidateFilter(filter *models.HouseFilter) error {
	if filter == nil {
		return nil
	}
	if err := v.validate.Struct(filter); err != nil {
		return fieldError(err)
	}
	if pr := filter.PriceRange; pr != nil {
		if (pr.Min != nil && *pr.Min < 0) || (pr.Max != nil && *pr.Max < 0) {
			return apperrors.NewValidationError("price range bounds must be non-negative", nil)
		}
		if pr.Min != nil && pr.Max != nil && *pr.Min > *pr.Max {
			return apperrors.NewValidationError("minimum price must not exceed maximum price", nil)
		}
	}
	return nil
}

func (v *houseValidator) ValidatePagination(p *models.PaginationRequest) error {
	if p == nil {
		return nil
	}
	if p.Page < 1 {
		return apperrors.NewValidationError("page must be at least 1", nil)
	}
	if p.Limit < 1 || p.Limit > maxPageSize {
		return apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", maxPageSize), nil)
	}
	return nil
}

func (v *houseValidator) validateHouse(house *models.House) error {
	if err := v.validate.Struct(house); err != nil {
		return fieldError(err)
	}
	return nil
}

// fieldError turns validator output into one readable sentence per field.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(apperrors.MsgInvalidParameters, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.NewValidationError(strings.Join(msgs, "\n"), err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
