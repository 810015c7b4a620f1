package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/handler"
	"github.com/edusight/gradescan-backend/internal/middleware"
	"github.com/edusight/gradescan-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Report *handler.ReportHandler
}

// SetupRouter configures the Gin engine with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger())
	// Panics anywhere in a request collapse to the same flat error body
	// the pipeline uses; the process never dies on a bad request.
	router.Use(gin.CustomRecovery(response.RecoveryHandler))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response carries one.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve exported workbooks statically. Responses never carry the
	// written path; operators pick files up here.
	exportsGroup := router.Group("/exports")
	exportsGroup.Use(middleware.CacheControl(3600))
	{
		exportsGroup.Static("/", cfg.ExportDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the reports group: every request here costs one
	// upstream extraction call.
	reportsLimiter := middleware.NewRateLimiter(cfg.RatePerMinute, time.Minute)

	// ─── Reports Group ─────────────────────────────────────────────────
	reports := router.Group("/api/v1/reports")
	reports.Use(reportsLimiter.Middleware())
	{
		reports.POST("/analyze", handlers.Report.AnalyzeReport)
		reports.POST("/export", handlers.Report.ExportReport)
	}

	return router
}
