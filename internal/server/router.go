package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/handlers"
  "github.com/raceautoindia/race-analytics-backend/internal/middleware"
)

type RouterConfig struct {
  AllowedOrigins     []string
  AuthMiddleware     *middleware.AuthMiddleware
  AuthHandler        *handlers.AuthHandler
  HierarchyHandler   *handlers.HierarchyHandler
  FormatHandler      *handlers.FormatHierarchyHandler
  VolumeDataHandler  *handlers.VolumeDataHandler
  MarketDataHandler  *handlers.MarketDataHandler
  GraphHandler       *handlers.GraphHandler
  ScoreHandler       *handlers.ScoreHandler
  CategoryDefHandler *handlers.CategoryDefinitionHandler
  MLHandler          *handlers.MLHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  origins := cfg.AllowedOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    // Chart data
    api.GET("/fetchMarketData", cfg.MarketDataHandler.FetchMarketData)
    api.GET("/fetchMarketBarData", cfg.MarketDataHandler.FetchMarketBarData)
    api.GET("/fetchAppData", cfg.MarketDataHandler.FetchAppData)
    api.GET("/fetchCVSegmentSplit", cfg.MarketDataHandler.FetchCVSegmentSplit)
    api.GET("/overallVolumes", cfg.MarketDataHandler.OverallVolumes)
    // Read-only resources
    api.GET("/volumeData", cfg.VolumeDataHandler.List)
    api.POST("/filterVolumeData", cfg.VolumeDataHandler.Filter)
    api.GET("/contentHierarchy", cfg.HierarchyHandler.List)
    api.GET("/formatHierarchy", cfg.FormatHandler.List)
    api.GET("/graphs", cfg.GraphHandler.List)
    api.GET("/categoryDefinition", cfg.CategoryDefHandler.Get)
    // Scores
    api.GET("/saveScores", cfg.ScoreHandler.Get)
    api.POST("/saveScores", cfg.ScoreHandler.Save)
    // Auth
    api.POST("/admin/forecast-login", cfg.AuthHandler.Login)
    api.GET("/admin/oauth/callback", cfg.AuthHandler.OAuthCallback)
    api.POST("/admin/logout", cfg.AuthHandler.Logout)
  }

// ===============
// || Admin     ||
// ===============
  admin := router.Group("/api")
  admin.Use(cfg.AuthMiddleware.RequireAuth())
  {
    // Content hierarchy
    admin.POST("/contentHierarchy", cfg.HierarchyHandler.Create)
    admin.PUT("/contentHierarchy", cfg.HierarchyHandler.Rename)
    admin.DELETE("/contentHierarchy", cfg.HierarchyHandler.Delete)
    // Format hierarchy
    admin.POST("/formatHierarchy", cfg.FormatHandler.Create)
    admin.PUT("/formatHierarchy", cfg.FormatHandler.Rename)
    admin.DELETE("/formatHierarchy", cfg.FormatHandler.Delete)
    // Volume data
    admin.POST("/volumeData", cfg.VolumeDataHandler.Upload)
    admin.DELETE("/volumeData", cfg.VolumeDataHandler.DeleteCells)
    // Graphs
    admin.POST("/graphs", cfg.GraphHandler.Create)
    admin.PUT("/graphs", cfg.GraphHandler.Update)
    admin.DELETE("/graphs", cfg.GraphHandler.Delete)
    // Category definitions
    admin.POST("/categoryDefinition", cfg.CategoryDefHandler.Upsert)
    // Scores
    admin.DELETE("/saveScores", cfg.ScoreHandler.Delete)
  }

// ===============
// || ML        ||
// ===============
  ml := router.Group("/api/ml")
  ml.Use(cfg.AuthMiddleware.RequireMLAccess())
  {
    ml.POST("/recompute", cfg.MLHandler.Recompute)
    ml.GET("/results", cfg.MLHandler.Results)
    ml.GET("/logs", cfg.MLHandler.Logs)
  }

  return router
}
