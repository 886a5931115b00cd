// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/handler"
	"github.com/fleveque/sentiment-service/internal/middleware"
	"github.com/fleveque/sentiment-service/internal/storage"
)

// Deps holds the dependencies the routes need.
// In Go, we pass dependencies explicitly — no DI container, no magic.
type Deps struct {
	Analyzer  handler.SentimentAnalyzer
	QueryRepo storage.QueryRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Each handler gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	sentimentHandler := handler.NewSentimentHandler(deps.Analyzer, cfg.LLM.RequestTimeout, logger)
	statsHandler := handler.NewStatsHandler(deps.QueryRepo, logger)

	// Health check (no CORS needed — probed by infrastructure, not browsers)
	r.GET("/healthz", healthHandler.Healthz)

	// The conventional unversioned path — this is the primary public surface.
	r.GET("/sentiment", middleware.CORS(cfg.CORS.AllowedOrigins), sentimentHandler.GetSentiment)

	// Versioned API group, same handler plus operational endpoints.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.GET("/sentiment", sentimentHandler.GetSentiment)
		api.GET("/stats", statsHandler.Stats)
	}
}
