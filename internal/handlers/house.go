// handlers/house.go
package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/services"
	"house-inventory/internal/store"
	"house-inventory/internal/utils"
	"house-inventory/pkg/currency"
)

type HouseHandler struct {
	houses services.HouseFacade
}

func NewHouseHandler(houses services.HouseFacade) *HouseHandler {
	return &HouseHandler{houses: houses}
}

// HouseListResponse is one page of houses after the local filter and sort.
type HouseListResponse struct {
	Data       []models.House            `json:"data"`
	Pagination models.PaginationResponse `json:"pagination"`
}

// GroupedResponse is the filtered grouped view of the loaded page.
type GroupedResponse struct {
	Data       []models.GroupedHouse     `json:"data"`
	Pagination models.PaginationResponse `json:"pagination"`
}

// ListHouses godoc
// @Summary List houses
// @Description Load a page of houses from the backend (or the list cache) and apply the filter
// @Tags Houses
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param blockNumber query string false "Block number"
// @Param landNumber query string false "Land number"
// @Param minPrice query string false "Minimum price, plain or dot-grouped"
// @Param maxPrice query string false "Maximum price, plain or dot-grouped"
// @Param houseType query string false "apartment, townhouse or villa"
// @Param status query string false "available or booked"
// @Param sortBy query string false "houseNumber, price or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} HouseListResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /houses [get]
func (h *HouseHandler) ListHouses(c *gin.Context) {
	state, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, HouseListResponse{
		Data:       utils.ApplyFilter(state.Houses, state.CurrentFilter),
		Pagination: state.PageInfo(),
	})
}

// GroupedHouses godoc
// @Summary List houses grouped by model
// @Tags Houses
// @Produce json
// @Param hideEmpty query bool false "Drop catalog models without houses"
// @Success 200 {object} GroupedResponse
// @Router /houses/grouped [get]
func (h *HouseHandler) GroupedHouses(c *gin.Context) {
	state, ok := h.load(c)
	if !ok {
		return
	}
	groups := state.FilteredGrouped
	if c.Query("hideEmpty") == "true" {
		groups = utils.NonEmptyGroups(groups)
	}
	c.JSON(http.StatusOK, GroupedResponse{
		Data:       groups,
		Pagination: state.PageInfo(),
	})
}

// load builds the response view for this request alone, so concurrent
// clients never see or cancel each other's pages.
func (h *HouseHandler) load(c *gin.Context) (store.HouseState, bool) {
	p, f, err := parseListQuery(c)
	if err != nil {
		_ = c.Error(err)
		return store.HouseState{}, false
	}
	state, err := h.houses.LoadPage(c.Request.Context(), p, f)
	if err != nil {
		_ = c.Error(err)
		return store.HouseState{}, false
	}
	return state, true
}

// GetHouse godoc
// @Summary Get house by ID
// @Tags Houses
// @Produce json
// @Param id path string true "House ID"
// @Success 200 {object} models.House
// @Failure 404 {object} map[string]interface{}
// @Router /houses/{id} [get]
func (h *HouseHandler) GetHouse(c *gin.Context) {
	house, err := h.houses.LoadByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, house)
}

// CreateHouse godoc
// @Summary Create a house
// @Tags Houses
// @Accept json
// @Produce json
// @Param house body models.House true "House data"
// @Success 201 {object} models.House
// @Failure 400 {object} map[string]interface{}
// @Router /houses [post]
func (h *HouseHandler) CreateHouse(c *gin.Context) {
	var house models.House
	if err := c.ShouldBindJSON(&house); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid house payload", err))
		return
	}

	created, err := h.houses.Create(c.Request.Context(), &house)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateHouse godoc
// @Summary Update a house
// @Tags Houses
// @Accept json
// @Produce json
// @Param id path string true "House ID"
// @Param house body models.House true "House data"
// @Success 200 {object} models.House
// @Router /houses/{id} [put]
func (h *HouseHandler) UpdateHouse(c *gin.Context) {
	var house models.House
	if err := c.ShouldBindJSON(&house); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid house payload", err))
		return
	}

	updated, err := h.houses.Update(c.Request.Context(), c.Param("id"), &house)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteHouse godoc
// @Summary Delete a house
// @Tags Houses
// @Param id path string true "House ID"
// @Success 204
// @Router /houses/{id} [delete]
func (h *HouseHandler) DeleteHouse(c *gin.Context) {
	if err := h.houses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListModels godoc
// @Summary List the house model catalog
// @Tags Houses
// @Produce json
// @Success 200 {array} models.HouseModel
// @Router /house-models [get]
func (h *HouseHandler) ListModels(c *gin.Context) {
	catalog, err := h.houses.LoadModels(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

// DeleteCache godoc
// @Summary Drop cached pages
// @Description Without match every cached page and house is dropped. With match only list pages whose cache key contains it are dropped.
// @Tags Houses
// @Param match query string false "cache key substring, e.g. block:A"
// @Success 200 {object} map[string]int
// @Success 204
// @Router /cache [delete]
func (h *HouseHandler) DeleteCache(c *gin.Context) {
	if match := strings.TrimSpace(c.Query("match")); match != "" {
		c.JSON(http.StatusOK, gin.H{"invalidated": h.houses.InvalidateCache(match)})
		return
	}
	h.houses.ClearCache()
	c.Status(http.StatusNoContent)
}

func parseListQuery(c *gin.Context) (*models.PaginationRequest, *models.HouseFilter, error) {
	page, err := intQuery(c, "page", models.DefaultPage)
	if err != nil {
		return nil, nil, err
	}
	limit, err := intQuery(c, "limit", models.DefaultLimit)
	if err != nil {
		return nil, nil, err
	}

	f := &models.HouseFilter{
		BlockNumber: strings.TrimSpace(c.Query("blockNumber")),
		LandNumber:  strings.TrimSpace(c.Query("landNumber")),
		HouseType:   models.HouseType(c.Query("houseType")),
		Status:      models.HouseStatus(c.Query("status")),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
	minPrice, err := priceQuery(c, "minPrice")
	if err != nil {
		return nil, nil, err
	}
	maxPrice, err := priceQuery(c, "maxPrice")
	if err != nil {
		return nil, nil, err
	}
	if minPrice != nil || maxPrice != nil {
		f.PriceRange = &models.PriceRange{Min: minPrice, Max: maxPrice}
	}
	if f.IsEmpty() {
		f = nil
	}
	return &models.PaginationRequest{Page: page, Limit: limit}, f, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be a number", err)
	}
	return n, nil
}

// priceQuery accepts plain digits or the dot-grouped display form. Prices
// are whole numbers within int64.
func priceQuery(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, ok := currency.Parse(raw)
	if !ok {
		return nil, apperrors.NewValidationError(key+" must be a price", nil)
	}
	if value != math.Trunc(value) {
		return nil, apperrors.NewValidationError(key+" must be a whole number", nil)
	}
	if value >= maxPrice || value < -maxPrice {
		return nil, apperrors.NewValidationError(key+" is out of range", nil)
	}
	n := int64(value)
	return &n, nil
}

// maxPrice is 2^63, the first float64 outside the int64 range.
const maxPrice = float64(1 << 63)
