// File: /services/service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crosspaths-api/models"
)

// setupTestDB opens a per-test in-memory database with the full schema.
// Connections are capped at one so concurrent test goroutines serialize at
// the pool instead of tripping sqlite busy errors.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Event{},
		&models.CheckIn{},
		&models.Connection{},
		&models.ConnectionEvent{},
		&models.Notification{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	user := models.User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password:      "hashed",
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, name string, lat, lng *float64, createdBy string, createdAt time.Time) models.Event {
	t.Helper()

	event := models.Event{
		ID:        uuid.New().String(),
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func floatPtr(v float64) *float64 {
	return &v
}
