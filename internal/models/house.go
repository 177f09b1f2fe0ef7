// internal/models/house.go
package models

import "strings"

type HouseType string

const (
	HouseTypeApartment HouseType = "apartment"
	HouseTypeTownhouse HouseType = "townhouse"
	HouseTypeVilla     HouseType = "villa"
)

type HouseStatus string

const (
	HouseStatusAvailable HouseStatus = "available"
	HouseStatusBooked    HouseStatus = "booked"
)

// HouseResourceType is the JSON:API type of a house resource.
const HouseResourceType = "houses"

type Links struct {
	Self string `json:"self,omitempty"`
}

// House is one unit of the inventory. ID stays empty until the server
// assigns it.
type House struct {
	ID          string      `json:"id,omitempty"`
	Type        string      `json:"type,omitempty"`
	Links       Links       `json:"links"`
	HouseNumber string      `json:"houseNumber" validate:"required,max=50"`
	BlockNumber string      `json:"blockNumber" validate:"required,max=20"`
	LandNumber  string      `json:"landNumber" validate:"required,max=20"`
	HouseType   HouseType   `json:"houseType" validate:"required,oneof=apartment townhouse villa"`
	Model       string      `json:"model" validate:"required,max=100"`
	Price       int64       `json:"price" validate:"gte=0"`
	Status      HouseStatus `json:"status" validate:"required,oneof=available booked"`
}

// FullHouseNumber renders block-land-<last dash segment of the house number>.
func (h House) FullHouseNumber() string {
	parts := strings.Split(h.HouseNumber, "-")
	return h.BlockNumber + "-" + h.LandNumber + "-" + parts[len(parts)-1]
}

func (h House) IsAvailable() bool {
	return h.Status == HouseStatusAvailable
}

// HouseAttributes is the snake_case attribute block sent and received on the wire.
type HouseAttributes struct {
	HouseNumber string `json:"house_number"`
	Price       int64  `json:"price"`
	BlockNumber string `json:"block_number"`
	LandNumber  string `json:"land_number"`
	HouseType   string `json:"house_type"`
	Model       string `json:"model"`
	Status      string `json:"status"`
}

type HouseResource struct {
	ID         string          `json:"id,omitempty"`
	Type       string          `json:"type,omitempty"`
	Links      *Links          `json:"links,omitempty"`
	Attributes HouseAttributes `json:"attributes"`
}
