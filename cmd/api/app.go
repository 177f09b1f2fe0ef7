package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"house-inventory/internal/handlers"
	"house-inventory/internal/middleware"
	"house-inventory/internal/services"
	"house-inventory/internal/store"
	"house-inventory/internal/transformers"
	"house-inventory/internal/validators"
	"house-inventory/pkg/api"
	"house-inventory/pkg/auth"
	"house-inventory/pkg/cache"
	"house-inventory/pkg/config"
	"house-inventory/pkg/logger"

	"github.com/gin-gonic/gin"
)

// App owns every long-lived component of the gateway.
type App struct {
	Config *config.Config
	Router *gin.Engine
	Server *http.Server

	Redis      cache.CacheClient
	Tokens     *auth.TokenService
	HouseCache *cache.HouseCache
	Houses     services.HouseFacade
	Session    services.AuthFacade

	HouseHandler   *handlers.HouseHandler
	SessionHandler *handlers.SessionHandler
	StreamHandler  *handlers.StreamHandler
	HealthHandler  *handlers.HealthHandler
	RateLimiter    *middleware.RateLimiter

	ctx    context.Context
	cancel context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, ctx: ctx, cancel: cancel}

	// Initialize infrastructure
	app.initializeTokenStorage()
	app.initializeCache()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()
	app.restoreSession()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// pick the token storage backend
func (a *App) initializeTokenStorage() {
	var storage auth.Storage
	switch a.Config.Auth.Storage {
	case config.StorageRedis:
		client, err := cache.NewRedisClient(a.ctx, a.Config.Redis)
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
			os.Exit(1)
		}
		a.Redis = client
		storage = auth.NewRedisStorage(client, a.Config.Auth.KeyPrefix)
	case config.StorageMemory:
		storage = auth.NewMemoryStorage()
	default:
		storage = auth.NewFileStorage(a.Config.Auth.TokenFile)
	}
	a.Tokens = auth.NewTokenService(storage, a.Config.Auth.TokenTTL)
	logger.GlobalLogger.Printf("Token storage ready: backend=%s, ttl=%v", a.Config.Auth.Storage, a.Config.Auth.TokenTTL)
}

// initialize the in-memory house cache and its sweeper
func (a *App) initializeCache() {
	a.HouseCache = cache.NewHouseCache(cache.Options{
		ListTTL:       a.Config.Cache.ListTTL,
		HouseTTL:      a.Config.Cache.HouseTTL,
		SweepInterval: a.Config.Cache.SweepInterval,
	})
	a.HouseCache.Start(a.ctx)
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(a.Config.Server.RateLimitPerMinute, a.Config.Server.RateLimitBurst)
	go a.RateLimiter.Cleanup(a.ctx, time.Hour, time.Hour)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// transport
	transport := api.NewAuthTransport(http.DefaultTransport, a.Tokens)
	client := api.NewClient(a.Config.API.BaseURL, &http.Client{
		Timeout:   a.Config.API.Timeout,
		Transport: transport,
	})

	// transformers
	houseTrans := transformers.NewHouseTransformer()
	authTrans := transformers.NewAuthTransformer()

	// backend APIs
	houseAPI := api.NewHouseAPI(client, houseTrans)
	authAPI := api.NewAuthAPI(client, authTrans)

	// stores
	houseStore := store.NewHouseStore(houseAPI, a.HouseCache)
	authStore := store.NewAuthStore(authAPI, a.Tokens)

	// the transport needs the auth store, which needs the client
	transport.Refresh = func(ctx context.Context) error {
		_, err := authStore.Refresh(ctx)
		return err
	}
	transport.OnUnauthorized = authStore.HandleUnauthorized

	// facades
	a.Houses = services.NewHouseService(houseStore, validators.NewHouseValidator())
	a.Session = services.NewAuthService(authStore, validators.NewAuthValidator())

	// handlers
	a.HouseHandler = handlers.NewHouseHandler(a.Houses)
	a.SessionHandler = handlers.NewSessionHandler(a.Session)
	a.StreamHandler = handlers.NewStreamHandler(a.Houses, a.Config.Server.AllowedOrigins)
	a.HealthHandler = handlers.NewHealthHandler(a.Redis, a.HouseCache)
}

// pick up a session persisted by a previous run
func (a *App) restoreSession() {
	ctx, cancel := context.WithTimeout(a.ctx, a.Config.API.Timeout)
	defer cancel()
	if _, err := a.Session.Init(ctx); err != nil {
		logger.GlobalLogger.Warnf("Stored session could not be restored: %v", err)
	}
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	a.cancel()
	a.HouseCache.Stop()
	cache.CloseRedis(a.Redis)
}
