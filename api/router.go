package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitegauge/api/handler"
	"github.com/use-agent/sitegauge/api/middleware"
	"github.com/use-agent/sitegauge/batch"
	"github.com/use-agent/sitegauge/cache"
	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/rater"
	"github.com/use-agent/sitegauge/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
// sc may be nil when the browser acquisition path is disabled.
func NewRouter(rt *rater.Rater, d *batch.Driver, sc *scraper.Scraper, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Rate
	protected.POST("/rate", handler.Rate(rt, cc))

	// Batch
	protected.POST("/batch/rate", handler.PostBatch(d, cfg.Webhook))
	protected.GET("/batch/:id", handler.GetBatch())

	return r
}
