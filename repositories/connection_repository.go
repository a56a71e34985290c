// File: /repositories/connection_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"crosspaths-api/models"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// FindByPair retrieves the connection for two users regardless of argument order
func (r *ConnectionRepository) FindByPair(user1ID, user2ID string) (*models.Connection, error) {
	a, b := models.CanonicalPair(user1ID, user2ID)

	var connection models.Connection
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&connection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &connection, nil
}

// FindForUser retrieves all connections a user participates in, with the peer
// users, the first-met event and the shared-event rows preloaded.
// Insertion order unless recent is set, then last_met descending.
func (r *ConnectionRepository) FindForUser(userID string, recent bool) ([]models.Connection, error) {
	order := "id ASC"
	if recent {
		order = "last_met_at DESC"
	}

	var connections []models.Connection
	err := r.db.Preload("UserA").Preload("UserB").Preload("FirstEvent").Preload("Events").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order(order).
		Find(&connections).Error
	if err != nil {
		return nil, err
	}
	return connections, nil
}

// SharedEventIDs returns the ids of all events a pair has both attended.
func (r *ConnectionRepository) SharedEventIDs(connectionID uint) ([]string, error) {
	var eventIDs []string
	err := r.db.Model(&models.ConnectionEvent{}).
		Where("connection_id = ?", connectionID).
		Order("met_at ASC").
		Pluck("event_id", &eventIDs).Error
	if err != nil {
		return nil, err
	}
	return eventIDs, nil
}

// SharedEventCount returns how many distinct events a pair has shared. The
// audit job compares this against paths_crossed.
func (r *ConnectionRepository) SharedEventCount(connectionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ConnectionEvent{}).
		Where("connection_id = ?", connectionID).
		Count(&count).Error
	return count, err
}

// All returns every connection. Used by the audit job.
func (r *ConnectionRepository) All() ([]models.Connection, error) {
	var connections []models.Connection
	err := r.db.Find(&connections).Error
	return connections, err
}

// SetPathsCrossed overwrites the counter. Only the audit job repairs drift
// through this; normal accumulation goes through the aggregator transaction.
func (r *ConnectionRepository) SetPathsCrossed(connectionID uint, count int) error {
	return r.db.Model(&models.Connection{}).
		Where("id = ?", connectionID).
		UpdateColumn("paths_crossed", count).Error
}
