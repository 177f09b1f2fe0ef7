package models

// OtherModelName labels the group holding houses whose model is not in the catalog.
const OtherModelName = "Other"

// GroupedHouse pairs a catalog model with the houses that reference it.
// Other marks the synthetic group for unmatched houses.
type GroupedHouse struct {
	Model  HouseModel `json:"model"`
	Houses []House    `json:"houses"`
	Other  bool       `json:"other,omitempty"`
}

func (g GroupedHouse) Count() int {
	return len(g.Houses)
}

func (g GroupedHouse) ModelName() string {
	return g.Model.Model
}

func (g GroupedHouse) HasVideo() bool {
	return g.Model.Media.Video != ""
}
