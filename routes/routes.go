// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crosspaths-api/config"
	"crosspaths-api/controllers"
	"crosspaths-api/middleware"
	"crosspaths-api/repositories"
	"crosspaths-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	// Repositories and services
	connectionRepo := repositories.NewConnectionRepository(db)
	geoService := services.NewGeoService(db)
	checkinService := services.NewCheckInService(db)
	connectionService := services.NewConnectionService(db, connectionRepo)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db)
	notificationController := controllers.NewNotificationController(db)
	checkinController := controllers.NewCheckInController(cfg, geoService, checkinService, connectionService, notificationController)
	eventController := controllers.NewEventController(db, connectionRepo)
	connectionController := controllers.NewConnectionController(connectionService, notificationController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
		auth.POST("/send-verification", authController.SendVerificationCode)
		auth.POST("/verify-code", authController.VerifyCode)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/settings", userController.GetSettings)
			users.PUT("/settings", userController.UpdateSettings)
		}

		// Check-in routes
		protected.POST("/checkins", checkinController.SubmitCheckIn)

		// Event routes
		events := protected.Group("/events")
		{
			events.GET("/nearby", checkinController.GetNearbyEvents)
			events.GET("/checked-in", checkinController.GetCheckedInEvents)
			events.GET("/:id", eventController.GetEvent)
		}

		// Connection routes
		connections := protected.Group("/connections")
		{
			connections.GET("/", connectionController.GetConnections)
			connections.POST("/:user_id/request", connectionController.RequestConnection)
			connections.POST("/:user_id/respond", connectionController.RespondConnection)
			connections.DELETE("/:user_id/request", connectionController.Disconnect)
			connections.PUT("/:user_id/tags", connectionController.UpdateTags)
			connections.PUT("/:user_id/notes", connectionController.UpdateNotes)
		}

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("/", notificationController.GetNotifications)
			notifications.GET("/stats", notificationController.GetNotificationStats)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
			notifications.PUT("/read-all", notificationController.MarkAllAsRead)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}
	}
}

// SetupCORS returns the CORS middleware for browser clients
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
