package utils

import (
	"house-inventory/internal/models"
)

// OtherModel is the catalog entry of the synthetic group for houses whose
// model is not in the catalog.
func OtherModel() models.HouseModel {
	return models.HouseModel{Model: models.OtherModelName}
}

// GroupHousesByModel returns one group per catalog model, in catalog order,
// including models without houses. Houses match on exact, case-sensitive
// model name. Unmatched houses go into a trailing "Other" group that is
// only present when non-empty. A repeated catalog name keeps its first entry.
func GroupHousesByModel(houses []models.House, catalog []models.HouseModel) []models.GroupedHouse {
	groups := make([]models.GroupedHouse, 0, len(catalog)+1)
	index := make(map[string]int, len(catalog))
	for _, m := range catalog {
		if _, seen := index[m.Model]; seen {
			continue
		}
		index[m.Model] = len(groups)
		groups = append(groups, models.GroupedHouse{Model: m, Houses: []models.House{}})
	}

	var other []models.House
	for _, h := range houses {
		if i, ok := index[h.Model]; ok {
			groups[i].Houses = append(groups[i].Houses, h)
			continue
		}
		other = append(other, h)
	}

	if len(other) > 0 {
		groups = append(groups, models.GroupedHouse{Model: OtherModel(), Houses: other, Other: true})
	}
	return groups
}

// FlattenGroups returns the houses of every group in group order.
func FlattenGroups(groups []models.GroupedHouse) []models.House {
	var n int
	for _, g := range groups {
		n += len(g.Houses)
	}
	out := make([]models.House, 0, n)
	for _, g := range groups {
		out = append(out, g.Houses...)
	}
	return out
}

// NonEmptyGroups drops groups without houses.
func NonEmptyGroups(groups []models.GroupedHouse) []models.GroupedHouse {
	out := make([]models.GroupedHouse, 0, len(groups))
	for _, g := range groups {
		if len(g.Houses) > 0 {
			out = append(out, g)
		}
	}
	return out
}
