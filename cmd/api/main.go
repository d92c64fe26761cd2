package main

import (
	"fmt"
	"net/http"
	"os"

	"opcoes/internal/config"
	"opcoes/internal/database"
	"opcoes/internal/handlers"
	"opcoes/internal/logger"
	"opcoes/internal/middleware"
	"opcoes/internal/services"
	"opcoes/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "opcoes/internal/docs" // Import swagger docs
)

// @title           Opcoes API
// @version         1.0
// @description     Opcoes tracks multi-leg option structures, rolls, exercises, and the treasury that backs them.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for the market data pipeline.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	settingsService := services.NewSettingsService(db)
	structureService := services.NewStructureService(db)
	rollService := services.NewRollService(db, settingsService)
	exerciseService := services.NewExerciseService(db, settingsService)
	treasuryService := services.NewTreasuryService(db)
	operationService := services.NewOperationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	structureHandler := handlers.NewStructureHandler(structureService, auditService)
	rollHandler := handlers.NewRollHandler(rollService, auditService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService, auditService)
	assetHandler := handlers.NewAssetHandler(treasuryService, auditService)
	cashFlowHandler := handlers.NewCashFlowHandler(treasuryService, auditService)
	operationHandler := handlers.NewOperationHandler(operationService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	pipelineHandler := handlers.NewPipelineHandler(treasuryService)

	// Register custom binding validators before any route binds a DTO
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Pipeline routes (API key auth)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/prices", pipelineHandler.UpdateMarketPrices)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Structure routes
	structures := protected.Group("/structures")
	structures.POST("", structureHandler.CreateStructure)
	structures.GET("", structureHandler.GetUserStructures)
	structures.GET("/:id", structureHandler.GetStructureByID)
	structures.PUT("/:id", structureHandler.UpdateStructure)
	structures.DELETE("/:id", structureHandler.DeleteStructure)
	structures.POST("/:id/activate", structureHandler.ActivateStructure)
	structures.POST("/:id/finalize", structureHandler.FinalizeStructure)
	structures.POST("/:id/rolls", rollHandler.CreateRoll)
	structures.GET("/:id/rolls", rollHandler.GetStructureRolls)
	structures.POST("/:id/exercises", exerciseHandler.CreateExercise)
	structures.GET("/:id/exercises", exerciseHandler.GetStructureExercises)
	structures.POST("/:id/operations/import", operationHandler.ImportOperations)
	structures.GET("/:id/operations", operationHandler.GetStructureOperations)

	// Roll routes
	rolls := protected.Group("/rolls")
	rolls.GET("/:id", rollHandler.GetRollByID)
	rolls.DELETE("/:id", rollHandler.DeleteRoll)

	// Exercise routes
	exercises := protected.Group("/exercises")
	exercises.GET("/:id", exerciseHandler.GetExerciseByID)

	// Custody asset routes
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetUserAssets)
	assets.GET("/:id", assetHandler.GetAssetByID)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	// Cash-flow routes
	cashflow := protected.Group("/cashflow")
	cashflow.POST("", cashFlowHandler.CreateCashFlowEntry)
	cashflow.GET("", cashFlowHandler.GetCashFlow)
	cashflow.DELETE("/:id", cashFlowHandler.DeleteCashFlowEntry)

	// Treasury summary
	protected.GET("/treasury/summary", cashFlowHandler.GetTreasurySummary)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	log.Infof("Starting opcoes backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
