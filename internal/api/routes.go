package api

import (
	"github.com/gin-gonic/gin"

	"github.com/delvedns/delvedns/internal/api/handlers"
	"github.com/delvedns/delvedns/internal/api/middleware"
	"github.com/delvedns/delvedns/internal/config"
)

// RegisterRoutes mounts the management endpoints on r. Health stays
// outside the API key guard so load balancers can probe it.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health)

	protected := v1.Group("")
	if cfg != nil && cfg.API.APIKey != "" {
		protected.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}
	protected.GET("/stats", h.Stats)
	protected.GET("/queries", h.Queries)
}
