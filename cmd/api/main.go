package main

import (
	"fmt"
	"net/http"
	"os"

	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/handlers"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/services"
	"spendwise/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spendwise/internal/docs" // Import swagger docs
)

// @title           Spendwise API
// @version         1.0
// @description     Spendwise is a personal finance backend for tracking income and expenses, with OTP-based password reset.

// @host      localhost:8080
// @BasePath  /

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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	resetService := services.NewResetService(db, userService)
	mailService := services.NewMailService(appConfig)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, mailService)
	userHandler := handlers.NewUserHandler(userService)
	resetHandler := handlers.NewResetHandler(resetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	// Initialize Gin router
	validator.Register()
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

	verifyUser := middleware.VerifyUser(userService)

	// Registration and authentication
	router.POST("/register", authHandler.Register)
	router.POST("/registerMail", authHandler.RegisterMail)
	router.POST("/authentication", verifyUser, authHandler.Authenticate)
	router.POST("/login", verifyUser, authHandler.Login)

	// User profile
	router.GET("/user/:username", userHandler.GetUser)
	router.PUT("/updateuser", middleware.AuthMiddleware(), userHandler.UpdateUser)

	// Password reset flow
	router.GET("/generateOTP", verifyUser, resetHandler.GenerateOTP)
	router.GET("/verifyOTP", verifyUser, resetHandler.VerifyOTP)
	router.GET("/createResetSession", resetHandler.CreateResetSession)
	router.PUT("/resetPassword", verifyUser, resetHandler.ResetPassword)

	// Transactions
	router.POST("/add-transaction", transactionHandler.AddTransaction)
	router.POST("/edit-transaction", transactionHandler.EditTransaction)
	router.POST("/delete-transaction", transactionHandler.DeleteTransaction)
	router.POST("/get-all-transaction", transactionHandler.GetAllTransactions)

	log.Infof("Starting Spendwise backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
