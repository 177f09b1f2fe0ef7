package models

import "strconv"

// Sort keys and directions accepted by HouseFilter.
const (
	SortByHouseNumber = "houseNumber"
	SortByPrice       = "price"
	SortByCreatedAt   = "createdAt"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PriceRange bounds are inclusive; a nil bound is unbounded.
type PriceRange struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// HouseFilter constrains a house list. Empty fields place no constraint.
type HouseFilter struct {
	BlockNumber string      `json:"blockNumber,omitempty"`
	LandNumber  string      `json:"landNumber,omitempty"`
	HouseType   HouseType   `json:"houseType,omitempty" validate:"omitempty,oneof=apartment townhouse villa"`
	Status      HouseStatus `json:"status,omitempty" validate:"omitempty,oneof=available booked"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	SortBy      string      `json:"sortBy,omitempty" validate:"omitempty,oneof=houseNumber price createdAt"`
	SortOrder   string      `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Param is one request parameter in a stable order.
type Param struct {
	Key   string
	Value string
}

// IsEmpty reports whether the filter places no constraint and requests no ordering.
func (f *HouseFilter) IsEmpty() bool {
	return f == nil || len(f.RequestParams()) == 0
}

// RequestParams lists the set filter fields in the order the backend and
// the cache key expect: blockNumber, landNumber, minPrice, maxPrice,
// houseType, status, sortBy, sortOrder.
func (f *HouseFilter) RequestParams() []Param {
	if f == nil {
		return nil
	}
	var params []Param
	add := func(key, value string) {
		if value != "" {
			params = append(params, Param{Key: key, Value: value})
		}
	}
	add("blockNumber", f.BlockNumber)
	add("landNumber", f.LandNumber)
	if f.PriceRange != nil {
		if f.PriceRange.Min != nil {
			add("minPrice", strconv.FormatInt(*f.PriceRange.Min, 10))
		}
		if f.PriceRange.Max != nil {
			add("maxPrice", strconv.FormatInt(*f.PriceRange.Max, 10))
		}
	}
	add("houseType", string(f.HouseType))
	add("status", string(f.Status))
	add("sortBy", f.SortBy)
	add("sortOrder", f.SortOrder)
	return params
}
