package store

import (
	"house-inventory/internal/models"
	"house-inventory/internal/utils"
)

// VisibleHouses is the filtered grouped view flattened back into a list.
func (st HouseState) VisibleHouses() []models.House {
	return utils.FlattenGroups(st.FilteredGrouped)
}

func (st HouseState) PageInfo() models.PaginationResponse {
	info := models.PaginationResponse{
		Total:      st.TotalCount,
		Page:       models.DefaultPage,
		Limit:      st.Pagination.PageSize(),
		TotalPages: st.TotalPages,
	}
	if st.Pagination != nil && st.Pagination.Page > 0 {
		info.Page = st.Pagination.Page
	}
	return info
}

func (st HouseState) HasHouses() bool {
	return len(st.Houses) > 0
}

// BlockOptions and LandOptions feed the filter dropdowns.
func (st HouseState) BlockOptions() []string {
	return utils.DistinctBlocks(st.Houses)
}

func (st HouseState) LandOptions() []string {
	return utils.DistinctLands(st.Houses)
}

func (st AuthState) DisplayName() string {
	if st.User == nil {
		return ""
	}
	if name := st.User.FullName(); name != "" {
		return name
	}
	return st.User.Email
}
