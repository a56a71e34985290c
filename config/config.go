// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Nearby-event matching
	NearbyRadiusMeters float64
	NearbyWindow       time.Duration
	NearbyLimit        int

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	radius, _ := strconv.ParseFloat(getEnv("NEARBY_RADIUS_METERS", "1000"), 64)
	windowHours, _ := strconv.Atoi(getEnv("NEARBY_WINDOW_HOURS", "24"))
	limit, _ := strconv.Atoi(getEnv("NEARBY_LIMIT", "5"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/crosspaths?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		NearbyRadiusMeters: radius,
		NearbyWindow:       time.Duration(windowHours) * time.Hour,
		NearbyLimit:        limit,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@crosspaths.app"),
		FromName:     getEnv("FROM_NAME", "CrossPaths"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
