package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/transformers"
	"house-inventory/pkg/auth"
)

const housesBody = `{
	"data": [
		{"id":"1","type":"houses","attributes":{"house_number":"A-1-01","price":1000000,"block_number":"A","land_number":"1","house_type":"villa","model":"Lotus","status":"available"}},
		{"id":"2","type":"houses","attributes":{"house_number":"B-2-02","price":2000000,"block_number":"B","land_number":"2","house_type":"apartment","model":"Orchid","status":"booked"}}
	],
	"meta": {"record_count": 12}
}`

const modelsBody = `{"data":[{"id":"m1","type":"house_models","attributes":{"model":"Lotus","house_type":"villa","media":{"title":"Lotus"}}}],"meta":{"record_count":1}}`

func newTestAPIs(t *testing.T, handler http.Handler) (*HouseAPI, *AuthAPI) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, srv.Client())
	return NewHouseAPI(client, transformers.NewHouseTransformer()), NewAuthAPI(client, transformers.NewAuthTransformer())
}

func TestGetHousesQueryAndMapping(t *testing.T) {
	var gotQuery string
	houses, _ := newTestAPIs(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/houses" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		io.WriteString(w, housesBody)
	}))

	max := int64(5000000)
	resp, err := houses.GetHouses(context.Background(),
		&models.PaginationRequest{Page: 1, Limit: 10},
		&models.HouseFilter{Status: models.HouseStatusAvailable, PriceRange: &models.PriceRange{Max: &max}})
	if err != nil {
		t.Fatalf("GetHouses: %v", err)
	}
	if gotQuery != "limit=10&maxPrice=5000000&page=1&status=available" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(resp.Data) != 2 || resp.Meta.RecordCount != 12 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Data[1].BlockNumber != "B" || resp.Data[1].Status != models.HouseStatusBooked {
		t.Errorf("house[1] = %+v", resp.Data[1])
	}
}

func TestGetHousesAndModelsOrder(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	houses, _ := newTestAPIs(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/api/house_models":
			io.WriteString(w, modelsBody)
		case "/api/houses":
			io.WriteString(w, housesBody)
		default:
			http.NotFound(w, r)
		}
	}))

	got, err := houses.GetHousesAndModels(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("GetHousesAndModels: %v", err)
	}
	if len(got.Models.Data) != 1 || len(got.Houses.Data) != 2 {
		t.Errorf("result = %+v", got)
	}
	if strings.Join(calls, ",") != "/api/house_models,/api/houses" {
		t.Errorf("call order = %v, want models first", calls)
	}
}

func TestCreateHouseSendsDocument(t *testing.T) {
	var body map[string]any
	var contentType string
	houses, _ := newTestAPIs(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"id":"99","type":"houses","attributes":{"house_number":"C-3-01","price":5,"block_number":"C","land_number":"3","house_type":"townhouse","model":"Iris","status":"available"}}}`)
	}))

	created, err := houses.CreateHouse(context.Background(), models.House{HouseNumber: "C-3-01", BlockNumber: "C"})
	if err != nil {
		t.Fatalf("CreateHouse: %v", err)
	}
	if created.ID != "99" {
		t.Errorf("created.ID = %q, want 99", created.ID)
	}
	data, _ := body["data"].(map[string]any)
	if data == nil || data["type"] != "houses" {
		t.Fatalf("request body = %v, want a houses document", body)
	}
	if _, ok := data["id"]; ok {
		t.Error("create request should not carry an id")
	}
	attrs, _ := data["attributes"].(map[string]any)
	if attrs["house_number"] != "C-3-01" {
		t.Errorf("attributes = %v", attrs)
	}
	if contentType != jsonAPIContentType {
		t.Errorf("Content-Type = %q, want %q", contentType, jsonAPIContentType)
	}
}

func TestAPIErrorDetailsJoined(t *testing.T) {
	houses, _ := newTestAPIs(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":[{"detail":"house_number has already been taken"},{"detail":"price must be greater than 0"}]}`)
	}))

	_, err := houses.CreateHouse(context.Background(), models.House{})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "house_number has already been taken\nprice must be greater than 0"
	if got := apperrors.Message(err, ""); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	houses := NewHouseAPI(NewClient(url, &http.Client{Timeout: time.Second}), transformers.NewHouseTransformer())
	_, err := houses.GetHouses(context.Background(), nil, nil)
	if !apperrors.HasCode(err, apperrors.ErrCodeNetwork) {
		t.Errorf("err = %v, want a network error", err)
	}
}

func TestLoginBodyAndToken(t *testing.T) {
	var body string
	_, authAPI := newTestAPIs(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		io.WriteString(w, `{"data":{"token":"tok-1","refreshToken":"ref-1","expiresIn":1200}}`)
	}))

	tok, err := authAPI.Login(context.Background(), models.LoginCredentials{Username: "agent@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok-1" || tok.RefreshToken != "ref-1" || tok.ExpiresIn != 1200 {
		t.Errorf("token = %+v", tok)
	}
	want := `{"data":{"type":"auth","attributes":{"username":"agent@example.com","password":"secret1"}}}`
	if body != want {
		t.Errorf("login body = %s, want %s", body, want)
	}
}

// refreshBackend accepts "Bearer fresh" only, issues "fresh" on refresh and
// counts calls per path.
type refreshBackend struct {
	refreshCalls  atomic.Int32
	houseCalls    atomic.Int32
	failRefresh   bool
	alwaysReject  bool
	lastAuth      atomic.Value
	lastRequestID atomic.Value
	requestBodies []string
	mu            sync.Mutex
}

func (b *refreshBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/refresh":
		b.refreshCalls.Add(1)
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if b.failRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"errors":[{"detail":"refresh token revoked"}]}`)
			return
		}
		io.WriteString(w, `{"data":{"accessToken":"fresh","expiresIn":600}}`)
	case "/api/houses":
		b.houseCalls.Add(1)
		b.lastAuth.Store(r.Header.Get("Authorization"))
		b.lastRequestID.Store(r.Header.Get("X-Request-ID"))
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requestBodies = append(b.requestBodies, string(raw))
		b.mu.Unlock()
		if b.alwaysReject || r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method == http.MethodPost {
			io.WriteString(w, `{"data":{"id":"5","type":"houses","attributes":{"house_number":"1"}}}`)
			return
		}
		io.WriteString(w, housesBody)
	default:
		http.NotFound(w, r)
	}
}

type transportFixture struct {
	backend      *refreshBackend
	houses       *HouseAPI
	tokens       *auth.TokenService
	unauthorized atomic.Int32
}

func newTransportFixture(t *testing.T, backend *refreshBackend, refreshToken string) *transportFixture {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	f := &transportFixture{backend: backend}
	f.tokens = auth.NewTokenService(auth.NewMemoryStorage(), time.Hour)
	if _, err := f.tokens.SetTokens(context.Background(), models.AuthToken{AccessToken: "stale", RefreshToken: refreshToken}); err != nil {
		t.Fatal(err)
	}

	transport := NewAuthTransport(srv.Client().Transport, f.tokens)
	client := NewClient(srv.URL, &http.Client{Transport: transport, Timeout: 5 * time.Second})
	authAPI := NewAuthAPI(client, transformers.NewAuthTransformer())
	transport.Refresh = func(ctx context.Context) error {
		rt, ok := f.tokens.RefreshToken(ctx)
		if !ok {
			return apperrors.NewSessionExpiredError(nil)
		}
		tok, err := authAPI.Refresh(ctx, rt)
		if err != nil {
			return err
		}
		_, err = f.tokens.SetTokens(ctx, tok)
		return err
	}
	transport.OnUnauthorized = func(ctx context.Context) {
		f.unauthorized.Add(1)
		_ = f.tokens.ClearTokens(ctx)
	}
	f.houses = NewHouseAPI(client, transformers.NewHouseTransformer())
	return f
}

func TestTransportRefreshesOnceAndRetries(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{}, "ref-1")

	resp, err := f.houses.GetHouses(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("GetHouses: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("len(data) = %d, want 2", len(resp.Data))
	}
	if n := f.backend.refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	if n := f.backend.houseCalls.Load(); n != 2 {
		t.Errorf("house calls = %d, want original + one retry", n)
	}
	if got := f.backend.lastAuth.Load(); got != "Bearer fresh" {
		t.Errorf("retry Authorization = %v", got)
	}
	if f.unauthorized.Load() != 0 {
		t.Error("OnUnauthorized should not run after a successful refresh")
	}
}

func TestTransportReplaysBody(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{}, "ref-1")

	if _, err := f.houses.CreateHouse(context.Background(), models.House{HouseNumber: "N-1"}); err != nil {
		t.Fatalf("CreateHouse: %v", err)
	}
	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()
	if len(f.backend.requestBodies) != 2 {
		t.Fatalf("bodies = %d, want 2", len(f.backend.requestBodies))
	}
	if f.backend.requestBodies[0] != f.backend.requestBodies[1] || f.backend.requestBodies[1] == "" {
		t.Errorf("retried body differs: %q vs %q", f.backend.requestBodies[0], f.backend.requestBodies[1])
	}
}

func TestTransportSecond401ForcesLogout(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{alwaysReject: true}, "ref-1")

	_, err := f.houses.GetHouses(context.Background(), nil, nil)
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	if n := f.backend.refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", n)
	}
	if n := f.unauthorized.Load(); n != 1 {
		t.Errorf("OnUnauthorized calls = %d, want 1", n)
	}
	if f.tokens.HasValidToken(context.Background()) {
		t.Error("tokens should be cleared")
	}
}

func TestTransportRefreshFailure(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{failRefresh: true}, "ref-1")

	_, err := f.houses.GetHouses(context.Background(), nil, nil)
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	if n := f.backend.houseCalls.Load(); n != 1 {
		t.Errorf("house calls = %d, want no retry", n)
	}
	if f.unauthorized.Load() != 1 {
		t.Error("OnUnauthorized should run when refresh fails")
	}
}

func TestTransportNoRefreshToken(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{}, "")

	if _, err := f.houses.GetHouses(context.Background(), nil, nil); !apperrors.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	if f.backend.refreshCalls.Load() != 0 {
		t.Error("refresh should not be attempted without a refresh token")
	}
	if f.unauthorized.Load() != 1 {
		t.Error("OnUnauthorized should run without a refresh token")
	}
}

func TestTransportConcurrent401sShareRefresh(t *testing.T) {
	backend := &refreshBackend{}
	f := newTransportFixture(t, backend, "ref-1")

	release := make(chan struct{})
	inner := f.houses.client.httpClient.Transport.(*AuthTransport)
	refresh := inner.Refresh
	inner.Refresh = func(ctx context.Context) error {
		<-release
		return refresh(ctx)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.houses.GetHouses(context.Background(), nil, nil)
			errs <- err
		}()
	}
	for backend.houseCalls.Load() < 4 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("GetHouses: %v", err)
		}
	}
	if n := backend.refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want 1 shared refresh", n)
	}
}

func TestTransportStampsHeaders(t *testing.T) {
	f := newTransportFixture(t, &refreshBackend{}, "ref-1")
	if _, err := f.tokens.SetTokens(context.Background(), models.AuthToken{AccessToken: "fresh"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.houses.GetHouses(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	if id, _ := f.backend.lastRequestID.Load().(string); len(id) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", id)
	}
	if f.backend.refreshCalls.Load() != 0 {
		t.Error("valid token should not trigger a refresh")
	}
}
