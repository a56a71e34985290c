// File: /database/database.go
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crosspaths-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Event{},
		&models.CheckIn{},
		&models.Connection{},
		&models.ConnectionEvent{},
		&models.Notification{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Nearby-event candidate scan is (created_at window, newest first)
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events created_at: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_checkins_user_created ON checkins(user_id, checked_in_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for checkins user list: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_user_a ON connections(user_a_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for connections user_a: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_user_b ON connections(user_b_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for connections user_b: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_target_created ON notifications(target_user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for notifications: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The uniqueness constraints below carry the engine's idempotency
	// invariants: one check-in per (event, user), one connection per pair,
	// one shared-event row per (pair, event). Concurrent duplicate inserts
	// race down to exactly one row.

	if err := db.Exec("ALTER TABLE checkins ADD CONSTRAINT uk_checkins_event_user UNIQUE (event_id, user_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for checkins: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE connections ADD CONSTRAINT uk_connections_pair UNIQUE (user_a_id, user_b_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for connections: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE connections ADD CONSTRAINT ck_connections_ordered_pair CHECK (user_a_id < user_b_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for connections: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE connection_events ADD CONSTRAINT uk_connection_events_pair_event UNIQUE (connection_id, event_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for connection_events: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	testUsers := []models.User{
		{
			ID:            "user-1",
			Name:          "alex chen",
			Email:         "alex@example.com",
			Password:      "$2a$10$dummy", // This should be properly hashed in real scenarios
			EmailVerified: true,
			Company:       "startup inc",
			Bio:           "full-stack developer passionate about ai and machine learning",
			Links:         models.LinkSlice{{Label: "github", URL: "https://github.com/alexchen"}},
		},
		{
			ID:            "user-2",
			Name:          "sarah kim",
			Email:         "sarah@example.com",
			Password:      "$2a$10$dummy",
			EmailVerified: true,
			Company:       "design co",
			Bio:           "ux designer focused on accessibility and inclusive design",
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Email, err)
		}
	}

	fmt.Println("Database seeded with test data")
	return nil
}
