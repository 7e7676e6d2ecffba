package main

import (
	"fmt"
	"os"

	"spendtrack/internal/config"
	"spendtrack/internal/database"
	"spendtrack/internal/fx"
	"spendtrack/internal/handlers"
	"spendtrack/internal/logger"
	"spendtrack/internal/validator"

	_ "spendtrack/internal/docs" // Import swagger docs
)

// @title           Spendtrack API
// @version         1.0
// @description     Spendtrack is a personal finance tracker for recording earned/spent transactions, categorizing them, and budgeting with monthly or custom-range plans.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Register custom binding validators
	validator.Register()

	converter := fx.NewClient(appConfig.FXBaseURL, appConfig.FXAPIKey, appConfig.FXCacheTTL)
	router := handlers.NewRouter(dbManager.DB(), converter)

	log.Infof("Starting spendtrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
