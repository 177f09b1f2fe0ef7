package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/middleware"
	"house-inventory/internal/models"
	"house-inventory/internal/services"
	"house-inventory/internal/store"
	"house-inventory/internal/validators"
	"house-inventory/pkg/auth"
	"house-inventory/pkg/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type backend struct {
	mu      sync.Mutex
	houses  []models.House
	catalog []models.HouseModel
	queries []*models.HouseFilter

	// holdBlock, when set, parks list requests for that block until gate
	// is closed.
	holdBlock string
	held      chan struct{}
	gate      chan struct{}
}

func (b *backend) GetHousesAndModels(ctx context.Context, p *models.PaginationRequest, f *models.HouseFilter) (models.HousesAndModels, error) {
	b.mu.Lock()
	b.queries = append(b.queries, f)
	hold := b.holdBlock != "" && f != nil && f.BlockNumber == b.holdBlock
	b.mu.Unlock()
	if hold {
		close(b.held)
		select {
		case <-b.gate:
		case <-ctx.Done():
			return models.HousesAndModels{}, ctx.Err()
		}
	}

	var out models.HousesAndModels
	out.Models.Data = b.catalog
	out.Houses.Data = b.houses
	out.Houses.Meta.RecordCount = len(b.houses)
	return out, nil
}

func (b *backend) GetHouseModels(ctx context.Context) (models.APIResponse[[]models.HouseModel], error) {
	return models.APIResponse[[]models.HouseModel]{Data: b.catalog}, nil
}

func (b *backend) GetHouseByID(ctx context.Context, id string) (models.House, error) {
	for _, h := range b.houses {
		if h.ID == id {
			return h, nil
		}
	}
	return models.House{}, apperrors.NewAPIError(http.StatusNotFound, []string{"House not found"}, "404")
}

func (b *backend) CreateHouse(ctx context.Context, house models.House) (models.House, error) {
	house.ID = "99"
	b.houses = append(b.houses, house)
	return house, nil
}

func (b *backend) UpdateHouse(ctx context.Context, id string, house models.House) (models.House, error) {
	house.ID = id
	return house, nil
}

func (b *backend) DeleteHouse(ctx context.Context, id string) error { return nil }

func (b *backend) Login(ctx context.Context, creds models.LoginCredentials) (models.AuthToken, error) {
	if creds.Password != "secret1" {
		return models.AuthToken{}, apperrors.NewAPIError(http.StatusUnauthorized, []string{"Invalid credentials"}, "401")
	}
	return models.AuthToken{AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 600}, nil
}

func (b *backend) Logout(ctx context.Context) error { return nil }

func (b *backend) Refresh(ctx context.Context, refreshToken string) (models.AuthToken, error) {
	return models.AuthToken{AccessToken: "a2", ExpiresIn: 600}, nil
}

func (b *backend) CurrentUser(ctx context.Context) (models.AuthUser, error) {
	return models.AuthUser{ID: "u1", Email: "jane@example.com"}, nil
}

func sampleHouse(id, block, model string, price int64) models.House {
	return models.House{
		ID:          id,
		HouseNumber: block + "-" + id,
		BlockNumber: block,
		LandNumber:  "1",
		HouseType:   models.HouseTypeVilla,
		Model:       model,
		Price:       price,
		Status:      models.HouseStatusAvailable,
	}
}

func newRouter(t *testing.T) (*gin.Engine, *backend) {
	t.Helper()
	b := &backend{
		houses: []models.House{
			sampleHouse("1", "A", "Oak", 300),
			sampleHouse("2", "B", "Pine", 100),
			sampleHouse("3", "A", "Oak", 200),
		},
		catalog: []models.HouseModel{{Model: "Oak"}, {Model: "Pine"}},
	}
	houseCache := cache.NewHouseCache(cache.Options{})
	houses := services.NewHouseService(store.NewHouseStore(b, houseCache), validators.NewHouseValidator())
	tokens := auth.NewTokenService(auth.NewMemoryStorage(), time.Hour)
	session := services.NewAuthService(store.NewAuthStore(b, tokens), validators.NewAuthValidator())

	hh := NewHouseHandler(houses)
	sh := NewSessionHandler(session)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/health", NewHealthHandler(nil, houseCache).Health)
	api := r.Group("/api")
	api.POST("/session", sh.Login)
	api.GET("/session", sh.GetSession)
	api.DELETE("/session", sh.Logout)
	api.GET("/currency", FormatCurrency)
	protected := api.Group("")
	protected.Use(middleware.RequireSession(session))
	protected.GET("/houses", hh.ListHouses)
	protected.GET("/houses/grouped", hh.GroupedHouses)
	protected.GET("/houses/:id", hh.GetHouse)
	protected.POST("/houses", hh.CreateHouse)
	protected.DELETE("/houses/:id", hh.DeleteHouse)
	protected.DELETE("/cache", hh.DeleteCache)
	return r, b
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := do(r, http.MethodPost, "/api/session", models.LoginCredentials{Username: "jane@example.com", Password: "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestHousesRequireSession(t *testing.T) {
	r, _ := newRouter(t)
	if w := do(r, http.MethodGet, "/api/houses", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/api/session", models.LoginCredentials{Username: "jane@example.com", Password: "wrong-pw"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", w.Code)
	}

	login(t, r)
	w = do(r, http.MethodGet, "/api/session", nil)
	var state store.AuthState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if !state.IsAuthenticated || state.User == nil || state.User.Email != "jane@example.com" {
		t.Errorf("session = %+v", state)
	}

	if w := do(r, http.MethodDelete, "/api/session", nil); w.Code != http.StatusNoContent {
		t.Errorf("logout status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/houses", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("after logout status = %d, want 401", w.Code)
	}
}

func TestListHousesFilterAndSort(t *testing.T) {
	r, b := newRouter(t)
	login(t, r)

	w := do(r, http.MethodGet, "/api/houses?blockNumber=A&sortBy=price&sortOrder=asc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp HouseListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 || resp.Data[0].ID != "3" || resp.Data[1].ID != "1" {
		t.Errorf("data = %+v, want houses 3 then 1", resp.Data)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Limit != 10 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
	if len(b.queries) != 1 || b.queries[0] == nil || b.queries[0].BlockNumber != "A" {
		t.Errorf("backend filter = %+v", b.queries)
	}
}

func TestListHousesDisplayPrice(t *testing.T) {
	r, b := newRouter(t)
	login(t, r)
	if w := do(r, http.MethodGet, "/api/houses?minPrice=1.000", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	f := b.queries[0]
	if f == nil || f.PriceRange == nil || f.PriceRange.Min == nil || *f.PriceRange.Min != 1000 {
		t.Errorf("filter = %+v, want minPrice 1000", f)
	}
}

func TestListHousesBadQuery(t *testing.T) {
	r, _ := newRouter(t)
	login(t, r)
	for _, path := range []string{
		"/api/houses?page=x",
		"/api/houses?limit=500",
		"/api/houses?status=sold",
		"/api/houses?minPrice=1,5",
		"/api/houses?maxPrice=99999999999999999999",
	} {
		if w := do(r, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestListHousesConcurrentClients(t *testing.T) {
	r, b := newRouter(t)
	login(t, r)
	b.holdBlock = "A"
	b.held = make(chan struct{})
	b.gate = make(chan struct{})

	slow := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		slow <- do(r, http.MethodGet, "/api/houses?blockNumber=A", nil)
	}()
	<-b.held

	w := do(r, http.MethodGet, "/api/houses?blockNumber=B", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("block B status = %d, body = %s", w.Code, w.Body.String())
	}
	var fast HouseListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fast); err != nil {
		t.Fatal(err)
	}
	if len(fast.Data) != 1 || fast.Data[0].BlockNumber != "B" {
		t.Errorf("block B data = %+v", fast.Data)
	}

	close(b.gate)
	var aw *httptest.ResponseRecorder
	select {
	case aw = <-slow:
	case <-time.After(2 * time.Second):
		t.Fatal("block A request did not return")
	}
	if aw.Code != http.StatusOK {
		t.Fatalf("block A status = %d, body = %s", aw.Code, aw.Body.String())
	}
	var held HouseListResponse
	if err := json.Unmarshal(aw.Body.Bytes(), &held); err != nil {
		t.Fatal(err)
	}
	if len(held.Data) != 2 {
		t.Errorf("block A data = %+v, want houses 1 and 3", held.Data)
	}
	for _, h := range held.Data {
		if h.BlockNumber != "A" {
			t.Errorf("block A response carries house %s from block %s", h.ID, h.BlockNumber)
		}
	}
}

func TestGroupedHouses(t *testing.T) {
	r, b := newRouter(t)
	b.catalog = append(b.catalog, models.HouseModel{Model: "Elm"})
	login(t, r)

	w := do(r, http.MethodGet, "/api/houses/grouped", nil)
	var resp GroupedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 3 || len(resp.Data[0].Houses) != 2 || resp.Data[0].Model.Model != "Oak" {
		t.Errorf("groups = %+v", resp.Data)
	}

	w = do(r, http.MethodGet, "/api/houses/grouped?hideEmpty=true", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("hideEmpty groups = %d, want 2", len(resp.Data))
	}
}

func TestHouseCRUD(t *testing.T) {
	r, _ := newRouter(t)
	login(t, r)

	if w := do(r, http.MethodGet, "/api/houses/2", nil); w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/houses/404", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing house status = %d, want 404", w.Code)
	}

	created := sampleHouse("", "C", "Oak", 1000)
	w := do(r, http.MethodPost, "/api/houses", created)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.House
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "99" {
		t.Errorf("created id = %q", got.ID)
	}

	invalid := sampleHouse("", "C", "", 1000)
	if w := do(r, http.MethodPost, "/api/houses", invalid); w.Code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d, want 400", w.Code)
	}

	if w := do(r, http.MethodDelete, "/api/houses/99", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
}

func TestDeleteCacheMatching(t *testing.T) {
	r, b := newRouter(t)
	login(t, r)

	do(r, http.MethodGet, "/api/houses", nil)
	do(r, http.MethodGet, "/api/houses", nil)
	if len(b.queries) != 1 {
		t.Fatalf("backend calls = %d, want 1 before invalidation", len(b.queries))
	}

	w := do(r, http.MethodDelete, "/api/cache?match=page:1", nil)
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["invalidated"] != 1 {
		t.Errorf("invalidated = %d, want 1", resp["invalidated"])
	}

	do(r, http.MethodGet, "/api/houses", nil)
	if len(b.queries) != 2 {
		t.Errorf("backend calls = %d, want 2 after invalidation", len(b.queries))
	}

	if w := do(r, http.MethodDelete, "/api/cache", nil); w.Code != http.StatusNoContent {
		t.Errorf("clear status = %d, want 204", w.Code)
	}
}

func TestFormatCurrency(t *testing.T) {
	r, _ := newRouter(t)
	w := do(r, http.MethodGet, "/api/currency?value=1234567,89", nil)
	var resp CurrencyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Display != "1.234.567,89" || resp.Normalized != "1234567.89" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Value == nil || *resp.Value != 1234567.89 {
		t.Errorf("value = %v", resp.Value)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t)
	if w := do(r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestOriginPatterns(t *testing.T) {
	got := originPatterns([]string{"http://localhost:4200", "*.example.com"})
	if len(got) != 2 || got[0] != "localhost:4200" || got[1] != "*.example.com" {
		t.Errorf("originPatterns = %v", got)
	}
}
