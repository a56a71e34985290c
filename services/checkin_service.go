// File: /services/checkin_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crosspaths-api/models"
	"crosspaths-api/utils"
)

// UserPair is one newly co-present pair of users, stored canonically
// (UserAID < UserBID) so (A,B) and (B,A) are the same pair.
type UserPair struct {
	UserAID string
	UserBID string
}

// CheckInResult is what one check-in produced. NewPairs is empty on a
// repeat check-in.
type CheckInResult struct {
	CheckIn          models.CheckIn
	NewPairs         []UserPair
	AlreadyCheckedIn bool
}

// CheckInService resolves the target event for a check-in and records the
// attendance row. It never auto-merges a check-in into a nearby event: the
// caller picks "new" or "join" explicitly after seeing matcher results.
type CheckInService struct {
	db *gorm.DB
}

func NewCheckInService(db *gorm.DB) *CheckInService {
	return &CheckInService{db: db}
}

// Resolve returns the event targeted by the request, creating it when
// mode is "new". The coordinate snapshot taken here is immutable; later
// check-ins never move an event.
func (s *CheckInService) Resolve(req models.CheckInRequest, userID string, now time.Time) (*models.Event, bool, error) {
	switch req.Mode {
	case models.CheckInModeJoin:
		var event models.Event
		if err := s.db.First(&event, "id = ?", req.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, fmt.Errorf("%w: event %s", models.ErrNotFound, req.EventID)
			}
			return nil, false, fmt.Errorf("%w: loading event: %v", models.ErrPersistence, err)
		}
		return &event, false, nil

	case models.CheckInModeNew:
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, false, fmt.Errorf("%w: event name must not be empty", models.ErrValidation)
		}

		if req.Latitude != nil && req.Longitude != nil {
			if !utils.IsValidLatitude(*req.Latitude) || !utils.IsValidLongitude(*req.Longitude) {
				return nil, false, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
			}
		}

		event := models.Event{
			ID:          uuid.New().String(),
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			CreatedBy:   userID,
			CreatedAt:   now,
		}

		if err := s.db.Create(&event).Error; err != nil {
			return nil, false, fmt.Errorf("%w: creating event: %v", models.ErrPersistence, err)
		}
		return &event, true, nil

	default:
		return nil, false, fmt.Errorf("%w: unknown check-in mode %q", models.ErrValidation, req.Mode)
	}
}

// CheckIn appends the (event, user) attendance row and detects which user
// pairs became co-present because of it.
//
// The insert races through the unique index on (event_id, user_id): a repeat
// check-in, concurrent or not, leaves exactly one row, returns the existing
// record and an empty pair set.
func (s *CheckInService) CheckIn(eventID, userID string, at time.Time) (*CheckInResult, error) {
	result := &CheckInResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
			}
			return fmt.Errorf("%w: loading event: %v", models.ErrPersistence, err)
		}

		checkin := models.CheckIn{
			EventID:     eventID,
			UserID:      userID,
			CheckedInAt: at,
		}

		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&checkin)
		if insert.Error != nil {
			return fmt.Errorf("%w: inserting check-in: %v", models.ErrPersistence, insert.Error)
		}

		if insert.RowsAffected == 0 {
			// Idempotency short-circuit: the row already exists. Success,
			// no co-presence detection, no counter movement.
			var existing models.CheckIn
			if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error; err != nil {
				return fmt.Errorf("%w: loading existing check-in: %v", models.ErrPersistence, err)
			}
			result.CheckIn = existing
			result.AlreadyCheckedIn = true
			return nil
		}

		var otherUserIDs []string
		if err := tx.Model(&models.CheckIn{}).
			Where("event_id = ? AND user_id != ?", eventID, userID).
			Pluck("user_id", &otherUserIDs).Error; err != nil {
			return fmt.Errorf("%w: loading co-attendees: %v", models.ErrPersistence, err)
		}

		pairs := make([]UserPair, 0, len(otherUserIDs))
		for _, otherID := range otherUserIDs {
			a, b := models.CanonicalPair(userID, otherID)
			pairs = append(pairs, UserPair{UserAID: a, UserBID: b})
		}

		result.CheckIn = checkin
		result.NewPairs = pairs
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListUserCheckIns returns the caller's check-in history, newest first.
func (s *CheckInService) ListUserCheckIns(userID string) ([]models.CheckIn, error) {
	var checkins []models.CheckIn
	err := s.db.Preload("Event").
		Where("user_id = ?", userID).
		Order("checked_in_at DESC").
		Find(&checkins).Error
	if err != nil {
		return nil, fmt.Errorf("%w: loading check-ins: %v", models.ErrPersistence, err)
	}
	return checkins, nil
}
