package utils

import (
	"sort"

	"house-inventory/internal/models"
)

// MatchesFilter reports whether h satisfies every field set on f. Price
// bounds are inclusive. A nil filter matches everything.
func MatchesFilter(h models.House, f *models.HouseFilter) bool {
	if f == nil {
		return true
	}
	if f.BlockNumber != "" && h.BlockNumber != f.BlockNumber {
		return false
	}
	if f.LandNumber != "" && h.LandNumber != f.LandNumber {
		return false
	}
	if f.HouseType != "" && h.HouseType != f.HouseType {
		return false
	}
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if pr := f.PriceRange; pr != nil {
		if pr.Min != nil && h.Price < *pr.Min {
			return false
		}
		if pr.Max != nil && h.Price > *pr.Max {
			return false
		}
	}
	return true
}

// FilterHouses keeps the houses matching f, preserving order.
func FilterHouses(houses []models.House, f *models.HouseFilter) []models.House {
	out := make([]models.House, 0, len(houses))
	for _, h := range houses {
		if MatchesFilter(h, f) {
			out = append(out, h)
		}
	}
	return out
}

// FilterGroups filters inside every group. With a non-nil filter, groups
// left without houses are dropped; a nil filter returns the groups as they are.
func FilterGroups(groups []models.GroupedHouse, f *models.HouseFilter) []models.GroupedHouse {
	if f == nil {
		out := make([]models.GroupedHouse, len(groups))
		copy(out, groups)
		return out
	}
	out := make([]models.GroupedHouse, 0, len(groups))
	for _, g := range groups {
		houses := FilterHouses(g.Houses, f)
		if len(houses) == 0 {
			continue
		}
		out = append(out, models.GroupedHouse{Model: g.Model, Houses: houses, Other: g.Other})
	}
	return out
}

// SortHouses returns a copy ordered by sortBy and order. Unknown keys,
// including createdAt which houses do not carry, keep the input order.
func SortHouses(houses []models.House, sortBy, order string) []models.House {
	out := make([]models.House, len(houses))
	copy(out, houses)

	var less func(a, b models.House) bool
	switch sortBy {
	case models.SortByHouseNumber:
		less = func(a, b models.House) bool { return a.HouseNumber < b.HouseNumber }
	case models.SortByPrice:
		less = func(a, b models.House) bool { return a.Price < b.Price }
	default:
		return out
	}
	if order == models.SortDesc {
		asc := less
		less = func(a, b models.House) bool { return asc(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ApplyFilter filters and then sorts as the filter requests.
func ApplyFilter(houses []models.House, f *models.HouseFilter) []models.House {
	filtered := FilterHouses(houses, f)
	if f == nil {
		return filtered
	}
	return SortHouses(filtered, f.SortBy, f.SortOrder)
}

// DistinctBlocks returns the sorted set of block numbers.
func DistinctBlocks(houses []models.House) []string {
	return distinct(houses, func(h models.House) string { return h.BlockNumber })
}

// DistinctLands returns the sorted set of land numbers.
func DistinctLands(houses []models.House) []string {
	return distinct(houses, func(h models.House) string { return h.LandNumber })
}

func distinct(houses []models.House, key func(models.House) string) []string {
	seen := make(map[string]struct{}, len(houses))
	out := make([]string, 0)
	for _, h := range houses {
		k := key(h)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
