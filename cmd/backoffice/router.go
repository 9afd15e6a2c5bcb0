package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/restaurant-backoffice/internal/dashboard"
	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/internal/templates"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/middleware"
	"github.com/richxcame/restaurant-backoffice/pkg/tracing"
)

// multipartSlack leaves room for multipart headers around the largest accepted image
const multipartSlack = 1 << 20

// newRouter builds the gin engine with the middleware chain and every feature's routes
func newRouter(a *app) *gin.Engine {
	cfg := a.cfg
	serviceName := cfg.Server.ServiceName

	router := gin.New()
	router.Use(middleware.Recovery())
	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders(cfg.Server.Environment))
	if cfg.Tracing.Enabled {
		router.Use(tracing.Middleware(serviceName))
	}
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins())))
	router.Use(middleware.MaxBodySize(cfg.Server.MaxUploadBytes + multipartSlack))

	// Health check and metrics
	router.GET("/healthz", common.HealthCheck(serviceName, cfg.Server.Version))
	router.GET("/health/ready", common.HealthCheckWithDeps(serviceName, cfg.Server.Version, a.readinessChecks()))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Storage.Provider == "local" && cfg.Storage.BaseURL == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Model-backed endpoints share the analysis rate limit
	var analysisGuards []gin.HandlerFunc
	if a.limiter != nil {
		analysisGuards = append(analysisGuards, middleware.RateLimit(a.limiter))
	}

	api := router.Group("/api")
	receipts.NewHandler(a.receipts).RegisterRoutes(api, analysisGuards...)
	reviews.NewHandler(a.reviews).RegisterRoutes(api, analysisGuards...)
	reservations.NewHandler(a.reservations).RegisterRoutes(api, analysisGuards...)
	templates.NewHandler(a.templates).RegisterRoutes(api)
	dashboard.NewHandler(a.dashboard).RegisterRoutes(api)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader}
	config.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	return config
}
