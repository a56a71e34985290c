// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"crosspaths-api/config"
	"crosspaths-api/database"
	"crosspaths-api/jobs"
	"crosspaths-api/middleware"
	"crosspaths-api/routes"
	"crosspaths-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Email service for verification and reset codes
	emailService := services.NewEmailService(cfg)

	// Background counter audit
	auditJob := jobs.NewConnectionAuditJob(db, time.Hour)
	auditJob.Start()
	defer auditJob.Stop()

	// Create router
	router := gin.New()

	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(120, 30))
	router.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService)

	// Start server
	log.Printf("Starting CrossPaths API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
