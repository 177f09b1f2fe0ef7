package models

// HouseModelResourceType is the JSON:API type of a house model resource.
const HouseModelResourceType = "house_models"

type Media struct {
	Title       string `json:"title"`
	Video       string `json:"video"`
	Banner      string `json:"banner"`
	Description string `json:"description"`
}

// HouseModel is a catalog entry: a named design that houses reference by Model.
type HouseModel struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type,omitempty"`
	Links     Links     `json:"links"`
	Model     string    `json:"model"`
	Media     Media     `json:"media"`
	HouseType HouseType `json:"houseType"`
}

type HouseModelAttributes struct {
	Model     string `json:"model"`
	Media     Media  `json:"media"`
	HouseType string `json:"house_type"`
}

type HouseModelResource struct {
	ID         string               `json:"id,omitempty"`
	Type       string               `json:"type,omitempty"`
	Links      *Links               `json:"links,omitempty"`
	Attributes HouseModelAttributes `json:"attributes"`
}

// HousesAndModels is the combined result of one list load: the catalog is
// fetched first, then the houses page.
type HousesAndModels struct {
	Models APIResponse[[]HouseModel]
	Houses APIResponse[[]House]
}
