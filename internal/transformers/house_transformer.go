package transformers

import (
	"house-inventory/internal/models"
)

type houseTransformer struct{}

func NewHouseTransformer() HouseTransformer {
	return &houseTransformer{}
}

func (t *houseTransformer) HouseFromResource(res models.HouseResource) models.House {
	house := models.House{
		ID:          res.ID,
		Type:        res.Type,
		HouseNumber: res.Attributes.HouseNumber,
		BlockNumber: res.Attributes.BlockNumber,
		LandNumber:  res.Attributes.LandNumber,
		HouseType:   models.HouseType(res.Attributes.HouseType),
		Model:       res.Attributes.Model,
		Price:       res.Attributes.Price,
		Status:      models.HouseStatus(res.Attributes.Status),
	}
	if res.Links != nil {
		house.Links = *res.Links
	}
	return house
}

// HouseToResource drops the id when the house has none yet so a create
// request carries attributes only.
func (t *houseTransformer) HouseToResource(house models.House) models.HouseResource {
	res := models.HouseResource{
		ID:   house.ID,
		Type: house.Type,
		Attributes: models.HouseAttributes{
			HouseNumber: house.HouseNumber,
			Price:       house.Price,
			BlockNumber: house.BlockNumber,
			LandNumber:  house.LandNumber,
			HouseType:   string(house.HouseType),
			Model:       house.Model,
			Status:      string(house.Status),
		},
	}
	if res.Type == "" {
		res.Type = models.HouseResourceType
	}
	if house.Links.Self != "" {
		links := house.Links
		res.Links = &links
	}
	return res
}

func (t *houseTransformer) HousesFromResources(res []models.HouseResource) []models.House {
	houses := make([]models.House, 0, len(res))
	for _, r := range res {
		houses = append(houses, t.HouseFromResource(r))
	}
	return houses
}

func (t *houseTransformer) ModelFromResource(res models.HouseModelResource) models.HouseModel {
	model := models.HouseModel{
		ID:        res.ID,
		Type:      res.Type,
		Model:     res.Attributes.Model,
		Media:     res.Attributes.Media,
		HouseType: models.HouseType(res.Attributes.HouseType),
	}
	if res.Links != nil {
		model.Links = *res.Links
	}
	return model
}

func (t *houseTransformer) ModelsFromResources(res []models.HouseModelResource) []models.HouseModel {
	out := make([]models.HouseModel, 0, len(res))
	for _, r := range res {
		out = append(out, t.ModelFromResource(r))
	}
	return out
}
