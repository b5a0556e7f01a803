package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bankhub/internal/adapters/http/middleware"
	"bankhub/internal/adapters/http/routes"
	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/config"
	"bankhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title BankHub API
// @version 1.0
// @description Back-office banking API: savings accounts, loans and transaction approvals

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed bootstrap admin and loan settings
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("Warning: failed to seed initial data: %v", err)
	}

	// Start background cleanup of expired refresh tokens
	janitor := services.NewTokenJanitor(repositories.NewRefreshTokenRepository(db))
	janitor.Start()
	defer janitor.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BankHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
