package main

import (
	"house-inventory/internal/handlers"
	"house-inventory/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.Router.GET("/health", a.HealthHandler.Health)
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.Router.GET("/ws/houses", middleware.RequireSession(a.Session), a.StreamHandler.Houses)
	a.setupAPIRoutes()
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	{
		// Public routes
		api.POST("/session", a.SessionHandler.Login)
		api.GET("/session", a.SessionHandler.GetSession)
		api.DELETE("/session", a.SessionHandler.Logout)
		api.POST("/session/refresh", a.SessionHandler.Refresh)
		api.GET("/currency", handlers.FormatCurrency)

		// Routes that need a backend session
		protected := api.Group("")
		protected.Use(middleware.RequireSession(a.Session))
		{
			protected.GET("/houses", a.HouseHandler.ListHouses)
			protected.GET("/houses/grouped", a.HouseHandler.GroupedHouses)
			protected.GET("/houses/:id", a.HouseHandler.GetHouse)
			protected.POST("/houses", a.HouseHandler.CreateHouse)
			protected.PUT("/houses/:id", a.HouseHandler.UpdateHouse)
			protected.DELETE("/houses/:id", a.HouseHandler.DeleteHouse)
			protected.GET("/house-models", a.HouseHandler.ListModels)
			protected.DELETE("/cache", a.HouseHandler.DeleteCache)
		}
	}
}
