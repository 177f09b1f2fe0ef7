// handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"house-inventory/pkg/cache"
	"house-inventory/pkg/logger"
)

type HealthHandler struct {
	redis cache.CacheClient
	cache *cache.HouseCache
}

// NewHealthHandler takes a nil redis client when tokens are not kept in Redis.
func NewHealthHandler(redis cache.CacheClient, houseCache *cache.HouseCache) *HealthHandler {
	return &HealthHandler{redis: redis, cache: houseCache}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.redis != nil {
		if err := cache.Ping(ctx, h.redis); err != nil {
			logger.GlobalLogger.Errorf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}
	}

	stats := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache": gin.H{
			"lists":  stats.ListSize,
			"houses": stats.HouseSize,
		},
	})
}
