// Package server assembles the gin router: CORS, routes, and the metrics
// endpoint.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvpagent/mvpagent/internal/handlers"
)

// RouterConfig carries the handlers and settings the router needs.
type RouterConfig struct {
	Validation  *handlers.ValidationHandler
	Projects    *handlers.ProjectHandler
	CORSOrigins []string
}

// NewRouter builds the HTTP router with all API routes mounted under
// /api/v1 and Prometheus metrics at /metrics.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		// Credentials cannot be combined with a wildcard origin.
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/health", cfg.Validation.Health)

		// Standalone validation.
		api.POST("/validate-feature", cfg.Validation.ValidateFeature)
		api.POST("/validate-batch", cfg.Validation.ValidateBatch)
		api.GET("/validation-stats", cfg.Validation.Stats)
		api.DELETE("/cache", cfg.Validation.ClearCache)

		// Projects.
		api.POST("/projects", cfg.Projects.CreateProject)
		api.GET("/projects", cfg.Projects.ListProjects)
		api.GET("/projects/:id", cfg.Projects.GetProject)
		api.PUT("/projects/:id", cfg.Projects.UpdateProject)
		api.DELETE("/projects/:id", cfg.Projects.DeleteProject)

		// Features within a project.
		api.POST("/projects/:id/features", cfg.Projects.CreateFeature)
		api.GET("/projects/:id/features", cfg.Projects.ListFeatures)
		api.GET("/projects/:id/features/:featureID", cfg.Projects.GetFeature)
		api.PUT("/projects/:id/features/:featureID", cfg.Projects.UpdateFeature)
		api.PUT("/projects/:id/features/:featureID/status", cfg.Projects.UpdateFeatureStatus)

		// Project-level operations.
		api.POST("/projects/:id/estimate", cfg.Projects.Estimate)
		api.POST("/projects/:id/generate-mvp", cfg.Projects.GenerateMVP)
	}

	return router
}
