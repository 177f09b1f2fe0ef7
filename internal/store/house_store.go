// Package store holds the application state containers. Each store guards
// its state with a mutex, changes it only through command methods and
// publishes every new state as a snapshot to its subscribers.
package store

import (
	"context"
	"errors"
	"sync"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/utils"
	"house-inventory/pkg/cache"
	"house-inventory/pkg/logger"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load started after it.
var ErrSuperseded = errors.New("load superseded by a newer request")

// HouseAPI is the backend surface the house store needs.
type HouseAPI interface {
	GetHousesAndModels(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (models.HousesAndModels, error)
	GetHouseModels(ctx context.Context) (models.APIResponse[[]models.HouseModel], error)
	GetHouseByID(ctx context.Context, id string) (models.House, error)
	CreateHouse(ctx context.Context, house models.House) (models.House, error)
	UpdateHouse(ctx context.Context, id string, house models.House) (models.House, error)
	DeleteHouse(ctx context.Context, id string) error
}

// HouseState is an immutable snapshot. Slices in a published snapshot are
// never modified afterwards.
type HouseState struct {
	Houses          []models.House            `json:"houses"`
	HouseModels     []models.HouseModel       `json:"houseModels"`
	Grouped         []models.GroupedHouse     `json:"groupedHouses"`
	FilteredGrouped []models.GroupedHouse     `json:"filteredGroupedHouses"`
	Selected        *models.House             `json:"selectedHouse"`
	CurrentFilter   *models.HouseFilter       `json:"currentFilter"`
	Pagination      *models.PaginationRequest `json:"pagination"`
	TotalCount      int                       `json:"totalCount"`
	TotalPages      int                       `json:"totalPages"`
	IsLoading       bool                      `json:"isLoading"`
	IsLoadingModels bool                      `json:"isLoadingModels"`
	IsLoadingHouse  bool                      `json:"isLoadingHouse"`
	IsSaving        bool                      `json:"isSaving"`
	Error           string                    `json:"error"`
}

func initialHouseState() HouseState {
	return HouseState{
		Houses:          []models.House{},
		HouseModels:     []models.HouseModel{},
		Grouped:         []models.GroupedHouse{},
		FilteredGrouped: []models.GroupedHouse{},
	}
}

type HouseStore struct {
	mu    sync.Mutex
	state HouseState
	api   HouseAPI
	cache *cache.HouseCache
	subs  *broadcaster[HouseState]

	generation uint64
	cancelLoad context.CancelFunc

	// in-flight by-id fetches and saves
	fetching int
	saving   int
}

func NewHouseStore(api HouseAPI, houseCache *cache.HouseCache) *HouseStore {
	return &HouseStore{
		state: initialHouseState(),
		api:   api,
		cache: houseCache,
		subs:  newBroadcaster[HouseState](),
	}
}

// Subscribe returns a channel that first yields the current state and then
// every later state, latest only. It is closed when ctx is done.
func (s *HouseStore) Subscribe(ctx context.Context) <-chan HouseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.subscribe(ctx, s.state)
}

func (s *HouseStore) snapshot() HouseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update applies fn to a copy of the state, stores and publishes it, and
// returns the new state. Callers hold s.mu.
func (s *HouseStore) update(fn func(st *HouseState)) HouseState {
	next := s.state
	fn(&next)
	s.state = next
	s.subs.publish(next)
	return next
}

// Load fetches a page of houses with the catalog, or serves it from the list
// cache, and returns the state it produced. A newer Load cancels this one; a
// late result of a superseded load is discarded and ErrSuperseded returned.
func (s *HouseStore) Load(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (HouseState, error) {
	key := cache.GenerateKey(p, f)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}

	if cached, ok := s.cache.Get(key); ok {
		logger.GlobalLogger.Debugf("house list served from cache: key=%s", key)
		next := s.update(func(st *HouseState) {
			st.applyPage(cached, p, f)
			st.IsLoading = false
			st.Error = ""
		})
		s.mu.Unlock()
		return next, nil
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.update(func(st *HouseState) {
		st.IsLoading = true
		st.Error = ""
	})
	s.mu.Unlock()
	defer cancel()

	entry, err := s.fetchPage(loadCtx, key, p, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		logger.GlobalLogger.Debugf("discarding superseded house load: key=%s, generation=%d", key, gen)
		return HouseState{}, ErrSuperseded
	}
	s.cancelLoad = nil

	if err != nil {
		utils.LogAndMapError(err, "Load houses", "key", key)
		next := s.update(func(st *HouseState) {
			st.IsLoading = false
			st.Error = apperrors.Message(err, apperrors.MsgLoadHousesFailed)
		})
		return next, err
	}

	return s.update(func(st *HouseState) {
		st.applyPage(entry, p, f)
		st.IsLoading = false
		st.Error = ""
	}), nil
}

// LoadPage serves a page for one caller. It never cancels and is never
// cancelled by other loads, and it returns a view built for this request
// alone. The shared state takes the page only while no Load is in flight.
// Failures go to the caller and leave the shared state untouched.
func (s *HouseStore) LoadPage(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (HouseState, error) {
	key := cache.GenerateKey(p, f)

	entry, ok := s.cache.Get(key)
	if ok {
		logger.GlobalLogger.Debugf("house page served from cache: key=%s", key)
	} else {
		var err error
		if entry, err = s.fetchPage(ctx, key, p, f); err != nil {
			utils.LogAndMapError(err, "Load house page", "key", key)
			return HouseState{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.state
	view.applyPage(entry, p, f)
	view.IsLoading = false
	view.Error = ""
	if s.cancelLoad == nil {
		s.update(func(st *HouseState) { st.applyPage(entry, p, f) })
	}
	return view, nil
}

// fetchPage asks the backend for a page and writes it to the list cache.
func (s *HouseStore) fetchPage(ctx context.Context, key string, p *models.PaginationRequest, f *models.HouseFilter) (*cache.CachedHouses, error) {
	result, err := s.api.GetHousesAndModels(ctx, p, f)
	if err != nil {
		return nil, err
	}

	houses := result.Houses.Data
	catalog := result.Models.Data
	totalCount := result.Houses.Meta.RecordCount
	if totalCount == 0 {
		totalCount = len(houses)
	}
	entry := cache.CachedHouses{
		Houses:     houses,
		Models:     catalog,
		Grouped:    utils.GroupHousesByModel(houses, catalog),
		TotalCount: totalCount,
		TotalPages: models.TotalPages(totalCount, p.PageSize()),
	}
	s.cache.Set(key, entry)
	return &entry, nil
}

// LoadByID selects a house, looking at the current selection, the loaded
// list and the house cache before asking the backend.
func (s *HouseStore) LoadByID(ctx context.Context, id string) (models.House, error) {
	s.mu.Lock()
	if sel := s.state.Selected; sel != nil && sel.ID == id {
		house := *sel
		s.mu.Unlock()
		return house, nil
	}
	for _, h := range s.state.Houses {
		if h.ID == id {
			house := h
			s.update(func(st *HouseState) { st.Selected = &house })
			s.mu.Unlock()
			return house, nil
		}
	}
	if house, ok := s.cache.GetHouse(id); ok {
		s.update(func(st *HouseState) { st.Selected = &house })
		s.mu.Unlock()
		return house, nil
	}
	s.fetching++
	s.update(func(st *HouseState) {
		st.IsLoadingHouse = true
		st.Error = ""
	})
	s.mu.Unlock()

	house, err := s.api.GetHouseByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching--
	if err != nil {
		utils.LogAndMapError(err, "Load house", "id", id)
		s.update(func(st *HouseState) {
			st.IsLoadingHouse = s.fetching > 0
			st.Error = apperrors.Message(err, apperrors.MsgLoadHouseFailed)
		})
		return models.House{}, err
	}
	s.cache.SetHouse(house.ID, house)
	s.update(func(st *HouseState) {
		st.IsLoadingHouse = s.fetching > 0
		st.Selected = &house
	})
	return house, nil
}

// LoadModels fetches the catalog alone and regroups the loaded houses with it.
func (s *HouseStore) LoadModels(ctx context.Context) ([]models.HouseModel, error) {
	s.mu.Lock()
	s.update(func(st *HouseState) {
		st.IsLoadingModels = true
		st.Error = ""
	})
	s.mu.Unlock()

	resp, err := s.api.GetHouseModels(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		utils.LogAndMapError(err, "Load house models")
		s.update(func(st *HouseState) {
			st.IsLoadingModels = false
			st.Error = apperrors.Message(err, apperrors.MsgLoadModelsFailed)
		})
		return nil, err
	}
	next := s.update(func(st *HouseState) {
		st.IsLoadingModels = false
		st.HouseModels = resp.Data
		st.regroup()
	})
	return next.HouseModels, nil
}

// Create sends the house and, once the server has assigned an id, prepends
// it to the list. Every list cache entry is dropped.
func (s *HouseStore) Create(ctx context.Context, house models.House) (models.House, error) {
	s.beginSave()

	created, err := s.api.CreateHouse(ctx, house)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving--
	if err != nil {
		utils.LogAndMapError(err, "Create house", "house_number", house.HouseNumber)
		s.update(func(st *HouseState) {
			st.IsSaving = s.saving > 0
			st.Error = apperrors.Message(err, apperrors.MsgCreateFailed)
		})
		return models.House{}, err
	}

	s.cache.Clear()
	s.cache.SetHouse(created.ID, created)
	s.update(func(st *HouseState) {
		houses := make([]models.House, 0, len(st.Houses)+1)
		houses = append(houses, created)
		st.Houses = append(houses, st.Houses...)
		st.TotalCount++
		st.IsSaving = s.saving > 0
		st.regroup()
	})
	logger.GlobalLogger.Printf("House created: id=%s, house_number=%s", created.ID, created.HouseNumber)
	return created, nil
}

// Update replaces the house in place and refreshes the selection.
func (s *HouseStore) Update(ctx context.Context, id string, house models.House) (models.House, error) {
	s.beginSave()

	updated, err := s.api.UpdateHouse(ctx, id, house)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving--
	if err != nil {
		utils.LogAndMapError(err, "Update house", "id", id)
		s.update(func(st *HouseState) {
			st.IsSaving = s.saving > 0
			st.Error = apperrors.Message(err, apperrors.MsgUpdateFailed)
		})
		return models.House{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}

	s.cache.Clear()
	s.cache.SetHouse(updated.ID, updated)
	s.update(func(st *HouseState) {
		houses := make([]models.House, len(st.Houses))
		for i, h := range st.Houses {
			if h.ID == id {
				h = updated
			}
			houses[i] = h
		}
		st.Houses = houses
		if st.Selected != nil && st.Selected.ID == id {
			sel := updated
			st.Selected = &sel
		}
		st.IsSaving = s.saving > 0
		st.regroup()
	})
	return updated, nil
}

// Delete removes the house everywhere. TotalCount never drops below zero.
func (s *HouseStore) Delete(ctx context.Context, id string) error {
	s.beginSave()

	err := s.api.DeleteHouse(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving--
	if err != nil {
		utils.LogAndMapError(err, "Delete house", "id", id)
		s.update(func(st *HouseState) {
			st.IsSaving = s.saving > 0
			st.Error = apperrors.Message(err, apperrors.MsgDeleteFailed)
		})
		return err
	}

	s.cache.Clear()
	s.cache.RemoveHouse(id)
	s.update(func(st *HouseState) {
		houses := make([]models.House, 0, len(st.Houses))
		for _, h := range st.Houses {
			if h.ID != id {
				houses = append(houses, h)
			}
		}
		st.Houses = houses
		if st.TotalCount > 0 {
			st.TotalCount--
		}
		if st.Selected != nil && st.Selected.ID == id {
			st.Selected = nil
		}
		st.IsSaving = s.saving > 0
		st.regroup()
	})
	logger.GlobalLogger.Printf("House deleted: id=%s", id)
	return nil
}

// SetFilter changes the filter applied to the grouped view without fetching.
func (s *HouseStore) SetFilter(f *models.HouseFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(func(st *HouseState) {
		st.CurrentFilter = f
		st.FilteredGrouped = utils.FilterGroups(st.Grouped, f)
	})
}

func (s *HouseStore) SetPagination(p *models.PaginationRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(func(st *HouseState) { st.Pagination = p })
}

func (s *HouseStore) Select(house *models.House) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(func(st *HouseState) {
		if house == nil {
			st.Selected = nil
			return
		}
		sel := *house
		st.Selected = &sel
	})
}

func (s *HouseStore) ClearSelected() {
	s.Select(nil)
}

func (s *HouseStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(func(st *HouseState) { st.Error = "" })
}

// Reset cancels any load in flight and returns to the initial state.
func (s *HouseStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.update(func(st *HouseState) { *st = initialHouseState() })
}

// ClearCache drops every cached list page and house.
func (s *HouseStore) ClearCache() {
	s.cache.ClearAll()
}

// InvalidateCache drops cached list pages whose key contains pattern.
func (s *HouseStore) InvalidateCache(pattern string) int {
	n := s.cache.InvalidateMatching(pattern)
	logger.GlobalLogger.Debugf("invalidated cached pages: pattern=%s, count=%d", pattern, n)
	return n
}

func (s *HouseStore) beginSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving++
	s.update(func(st *HouseState) {
		st.IsSaving = true
		st.Error = ""
	})
}

// applyPage replaces the list data with a fetched or cached page.
func (st *HouseState) applyPage(entry *cache.CachedHouses, p *models.PaginationRequest, f *models.HouseFilter) {
	st.Houses = entry.Houses
	st.HouseModels = entry.Models
	st.Grouped = entry.Grouped
	st.FilteredGrouped = utils.FilterGroups(entry.Grouped, f)
	st.CurrentFilter = f
	st.Pagination = p
	st.TotalCount = entry.TotalCount
	st.TotalPages = entry.TotalPages
}

// regroup rebuilds both grouped views from the flat list and catalog.
func (st *HouseState) regroup() {
	st.Grouped = utils.GroupHousesByModel(st.Houses, st.HouseModels)
	st.FilteredGrouped = utils.FilterGroups(st.Grouped, st.CurrentFilter)
}
