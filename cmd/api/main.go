package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"goalstash/internal/config"
	"goalstash/internal/database"
	"goalstash/internal/handlers"
	"goalstash/internal/logger"
	"goalstash/internal/middleware"
	"goalstash/internal/services"
	"goalstash/internal/validator"

	_ "goalstash/internal/docs" // Import swagger docs
)

// @title           GoalStash API
// @version         1.0
// @description     GoalStash is a personal savings tracker that lets users set savings goals, record deposits and withdrawals, and chat with a savings assistant.

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

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	goalService := services.NewGoalService(db)
	ledgerService := services.NewLedgerService(db)
	statsService := services.NewStatsService(db)
	chatbotService := services.NewChatbotService(db, ledgerService)
	auditService := services.NewAuditService(db)

	// The aggregate record must exist before any signup or deposit runs.
	if err := statsService.EnsureAppStats(); err != nil {
		return fmt.Errorf("failed to initialize aggregate stats: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, auditService)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService)
	statsHandler := handlers.NewStatsHandler(statsService)

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
	v1.GET("/stats", statsHandler.GetAppStats)

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/transactions", transactionHandler.CreateTransaction)
	goals.GET("/:id/transactions", transactionHandler.GetGoalTransactions)

	// Transaction routes
	protected.GET("/transactions", transactionHandler.GetUserTransactions)

	// Savings assistant
	protected.POST("/chatbot", chatbotHandler.Chat)

	log.Infof("Starting GoalStash backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
