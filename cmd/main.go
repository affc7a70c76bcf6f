package main

import (
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/accounts"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/clustering"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/redis"
  "github.com/raceautoindia/race-analytics-backend/internal/config"
  "github.com/raceautoindia/race-analytics-backend/internal/db"
  "github.com/raceautoindia/race-analytics-backend/internal/handlers"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/middleware"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/server"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
  "github.com/raceautoindia/race-analytics-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  tokenTTL := utils.GetEnvAsInt("AUTH_TOKEN_TTL", 7*24*3600, log)
  adminUsername := utils.GetEnv("ADMIN_USERNAME", "", log)
  adminPasswordHash := utils.GetEnv("ADMIN_PASSWORD_HASH", "", log)
  mlServiceURL := utils.GetEnv("ML_SERVICE_URL", "", log)
  mlTimeout := utils.GetEnvAsInt("ML_TIMEOUT_SECONDS", 60, log)
  mlModelVersion := utils.GetEnv("ML_MODEL_VERSION", "", log)
  mlAdminToken := utils.GetEnv("ML_ADMIN_TOKEN", "", log)
  altFuelMapFile := utils.GetEnv("ALT_FUEL_MAP_FILE", "", log)
  cookieDomain := utils.GetEnv("AUTH_COOKIE_DOMAIN", "", log)
  cookieSecure := utils.GetEnv("AUTH_COOKIE_SECURE", "false", log) == "true"
  allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Alt-fuel mapping
  altFuelMap, err := config.LoadAltFuelMap(altFuelMapFile)
  if err != nil {
    log.Error("Could not load alt-fuel mapping", "error", err)
    os.Exit(1)
  }

  // Repos
  log.Info("Setting up Repos from main...")
  hierarchyNodeRepo := repos.NewHierarchyNodeRepo(thePG, log)
  formatHierarchyRepo := repos.NewFormatHierarchyRepo(thePG, log)
  volumeDataRepo := repos.NewVolumeDataRepo(thePG, log)
  categoryDefRepo := repos.NewCategoryDefinitionRepo(thePG, log)
  graphRepo := repos.NewGraphRepo(thePG, log)
  submissionRepo := repos.NewSubmissionRepo(thePG, log)
  mlResultRepo := repos.NewMLResultRepo(thePG, log)
  scoreRangeLogRepo := repos.NewScoreRangeLogRepo(thePG, log)

  // Clients
  log.Info("Setting up external clients from main...")
  chartCache, err := redis.NewChartCache(log, 5*time.Minute)
  if err != nil {
    log.Warn("Chart cache disabled", "error", err)
    chartCache = nil
  }
  accountsClient, err := accounts.New(log)
  if err != nil {
    log.Warn("Accounts client disabled", "error", err)
    accountsClient = nil
  }
  clusteringClient, err := clustering.New(log, mlServiceURL)
  if err != nil {
    log.Warn("Clustering client disabled", "error", err)
    clusteringClient = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  hierarchyService := services.NewHierarchyService(thePG, log, hierarchyNodeRepo, volumeDataRepo)
  formatService := services.NewFormatHierarchyService(thePG, log, formatHierarchyRepo)
  volumeService := services.NewVolumeDataService(thePG, log, volumeDataRepo)
  uploadService := services.NewUploadService(thePG, log, hierarchyNodeRepo, volumeService, formatService, altFuelMap)
  marketDataService := services.NewMarketDataService(thePG, log, hierarchyNodeRepo, volumeDataRepo, altFuelMap, chartCache)
  graphService := services.NewGraphService(thePG, log, graphRepo)
  scoreService := services.NewScoreService(thePG, log, submissionRepo, graphRepo)
  mlService := services.NewMLService(thePG, log, submissionRepo, mlResultRepo, scoreRangeLogRepo, clusteringClient, mlModelVersion, time.Duration(mlTimeout)*time.Second)
  authService := services.NewAuthService(log, accountsClient, jwtSecretKey, time.Duration(tokenTTL)*time.Second, adminUsername, adminPasswordHash)
  categoryDefService := services.NewCategoryDefinitionService(thePG, log, categoryDefRepo, hierarchyNodeRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(log, authService, cookieDomain, cookieSecure)
  hierarchyHandler := handlers.NewHierarchyHandler(log, hierarchyService)
  formatHandler := handlers.NewFormatHierarchyHandler(log, formatService)
  volumeDataHandler := handlers.NewVolumeDataHandler(log, volumeService, uploadService)
  marketDataHandler := handlers.NewMarketDataHandler(log, marketDataService)
  graphHandler := handlers.NewGraphHandler(log, graphService)
  scoreHandler := handlers.NewScoreHandler(log, scoreService)
  categoryDefHandler := handlers.NewCategoryDefinitionHandler(log, categoryDefService)
  mlHandler := handlers.NewMLHandler(log, mlService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService, mlAdminToken)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AllowedOrigins:     strings.Split(allowedOrigins, ","),
    AuthMiddleware:     authMiddleware,
    AuthHandler:        authHandler,
    HierarchyHandler:   hierarchyHandler,
    FormatHandler:      formatHandler,
    VolumeDataHandler:  volumeDataHandler,
    MarketDataHandler:  marketDataHandler,
    GraphHandler:       graphHandler,
    ScoreHandler:       scoreHandler,
    CategoryDefHandler: categoryDefHandler,
    MLHandler:          mlHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
