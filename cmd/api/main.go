package main

import (
	"fmt"
	"net/http"
	"os"

	"ledgercast/internal/config"
	"ledgercast/internal/database"
	"ledgercast/internal/handlers"
	"ledgercast/internal/logger"
	"ledgercast/internal/middleware"
	"ledgercast/internal/models"
	"ledgercast/internal/services"
	"ledgercast/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ledgercast/internal/docs" // Import swagger docs
)

// @title           Ledgercast API
// @version         1.0
// @description     Ledgercast is a forecasting workbook for accounting practices: a P&L chart of accounts with monthly values, forecast and scenario projections, and cash-flow simulation.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Register custom binding validators
	validator.Register()

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
	workbookService := services.NewWorkbookService(db)
	forecastService := services.NewForecastService(db, workbookService)
	cashflowService := services.NewCashflowService(db, workbookService)
	quoteService := services.NewQuoteService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	workbookHandler := handlers.NewWorkbookHandler(workbookService, auditService)
	recordHandler := handlers.NewRecordHandler(forecastService, auditService)
	cashflowHandler := handlers.NewCashflowHandler(cashflowService)
	quoteHandler := handlers.NewQuoteHandler(quoteService, auditService)
	calculatorHandler := handlers.NewCalculatorHandler()
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Workbook tree and rollups
	protected.GET("/workbook", workbookHandler.GetWorkbook)
	protected.GET("/workbook/rollup", workbookHandler.GetRollup)

	categories := protected.Group("/categories")
	categories.POST("", workbookHandler.CreateCategory)
	categories.PUT("/:id", workbookHandler.UpdateCategory)
	categories.DELETE("/:id", workbookHandler.DeleteCategory)
	categories.POST("/:id/subcategories", workbookHandler.CreateSubcategory)

	subcategories := protected.Group("/subcategories")
	subcategories.PUT("/:id", workbookHandler.UpdateSubcategory)
	subcategories.DELETE("/:id", workbookHandler.DeleteSubcategory)
	subcategories.POST("/:id/rows", workbookHandler.CreateRow)

	rows := protected.Group("/rows")
	rows.PUT("/:id", workbookHandler.UpdateRow)
	rows.DELETE("/:id", workbookHandler.DeleteRow)
	rows.PUT("/:id/values", workbookHandler.SetRowValue)
	rows.GET("/:id/values", workbookHandler.GetRowValues)

	// Forecast and scenario records share one handler; the route group
	// fixes the kind.
	forecasts := protected.Group("/forecasts")
	forecasts.POST("", recordHandler.Create(models.RecordKindForecast))
	forecasts.GET("", recordHandler.List(models.RecordKindForecast))
	forecasts.POST("/check-overlap", recordHandler.CheckOverlap(models.RecordKindForecast))

	scenarios := protected.Group("/scenarios")
	scenarios.POST("", recordHandler.Create(models.RecordKindScenario))
	scenarios.GET("", recordHandler.List(models.RecordKindScenario))
	scenarios.POST("/check-overlap", recordHandler.CheckOverlap(models.RecordKindScenario))

	records := protected.Group("/records")
	records.GET("/:id", recordHandler.Get)
	records.PUT("/:id", recordHandler.Update)
	records.DELETE("/:id", recordHandler.Delete)
	records.POST("/:id/pause", recordHandler.Pause)
	records.POST("/:id/activate", recordHandler.Activate)
	records.POST("/:id/apply", recordHandler.Apply)

	// Cash-flow simulation
	protected.POST("/cashflow/simulate", cashflowHandler.Simulate)

	// Client quotes
	quotes := protected.Group("/quotes")
	quotes.POST("", quoteHandler.Create)
	quotes.GET("", quoteHandler.List)
	quotes.GET("/:id", quoteHandler.Get)
	quotes.PUT("/:id", quoteHandler.Update)
	quotes.PUT("/:id/status", quoteHandler.UpdateStatus)
	quotes.DELETE("/:id", quoteHandler.Delete)

	// Standalone financial calculators
	calculators := protected.Group("/calculators")
	calculators.POST("/loan-payment", calculatorHandler.LoanPayment)
	calculators.POST("/future-value", calculatorHandler.FutureValue)
	calculators.POST("/savings-goal", calculatorHandler.SavingsGoal)

	// Admin-only surface
	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.GET("/audit-logs", auditHandler.List)

	log.Infof("Starting Ledgercast backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
