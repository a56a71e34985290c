// File: /services/connection_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crosspaths-api/models"
	"crosspaths-api/repositories"
	"crosspaths-api/utils"
)

// ConnectionService maintains the per-pair connection graph: the
// paths-crossed counter, shared-event history, request state and
// caller-owned tags/notes.
type ConnectionService struct {
	db             *gorm.DB
	connectionRepo *repositories.ConnectionRepository
}

func NewConnectionService(db *gorm.DB, connectionRepo *repositories.ConnectionRepository) *ConnectionService {
	return &ConnectionService{
		db:             db,
		connectionRepo: connectionRepo,
	}
}

// RecordSharedEvent registers that a pair co-attended an event. Idempotent
// per (pair, event): the unique index on connection_events decides whether
// the counter moves, so two concurrent detections of the same shared event
// yield exactly one increment.
//
// paths_crossed == count(connection_events) holds after every commit.
func (s *ConnectionService) RecordSharedEvent(user1ID, user2ID, eventID string, at time.Time) (*models.Connection, error) {
	if user1ID == user2ID {
		return nil, fmt.Errorf("%w: a user cannot connect with themselves", models.ErrValidation)
	}

	a, b := models.CanonicalPair(user1ID, user2ID)
	var connection models.Connection

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Create the pair row if it does not exist yet. The counter starts
		// at zero; only the shared-event insert below moves it.
		seed := models.Connection{
			UserAID:      a,
			UserBID:      b,
			PathsCrossed: 0,
			FirstMetAt:   at,
			LastMetAt:    at,
			FirstEventID: eventID,
			Status:       models.ConnectionStatusNone,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("%w: creating connection: %v", models.ErrPersistence, err)
		}

		if err := tx.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&connection).Error; err != nil {
			return fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
		}

		event := models.ConnectionEvent{
			ConnectionID: connection.ID,
			EventID:      eventID,
			MetAt:        at,
		}
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
		if insert.Error != nil {
			return fmt.Errorf("%w: recording shared event: %v", models.ErrPersistence, insert.Error)
		}

		if insert.RowsAffected == 0 {
			// This event is already in the pair's shared set. Counter and
			// timestamps stay untouched.
			return nil
		}

		updates := map[string]interface{}{
			"paths_crossed": gorm.Expr("paths_crossed + ?", 1),
			"last_met_at":   gorm.Expr("CASE WHEN last_met_at < ? THEN ? ELSE last_met_at END", at, at),
		}
		if err := tx.Model(&models.Connection{}).Where("id = ?", connection.ID).UpdateColumns(updates).Error; err != nil {
			return fmt.Errorf("%w: updating connection counters: %v", models.ErrPersistence, err)
		}

		return tx.First(&connection, connection.ID).Error
	})

	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// ListConnections returns the caller's connections with the free-text search
// applied case-insensitively across peer name, company, first-met event name
// and tags (OR), then intersected with the single tag filter ("all" or empty
// means no tag filter). Default order is insertion order; recent switches to
// last_met descending.
func (s *ConnectionService) ListConnections(userID, search, tag string, recent bool) ([]models.ConnectionResponse, error) {
	connections, err := s.connectionRepo.FindForUser(userID, recent)
	if err != nil {
		return nil, fmt.Errorf("%w: loading connections: %v", models.ErrPersistence, err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	tag = strings.TrimSpace(tag)
	if strings.EqualFold(tag, "all") {
		tag = ""
	}

	responses := make([]models.ConnectionResponse, 0, len(connections))
	for _, conn := range connections {
		peer := conn.UserA
		if peer.ID == userID {
			peer = conn.UserB
		}

		if search != "" && !matchesSearch(&conn, &peer, search) {
			continue
		}
		if tag != "" && !hasTag(conn.Tags, tag) {
			continue
		}

		eventIDs := make([]string, 0, len(conn.Events))
		for _, ce := range conn.Events {
			eventIDs = append(eventIDs, ce.EventID)
		}

		requestedByMe := conn.RequestedBy != nil && *conn.RequestedBy == userID

		responses = append(responses, models.ConnectionResponse{
			ID:             conn.ID,
			UserID:         peer.ID,
			Name:           peer.Name,
			Company:        peer.Company,
			Bio:            peer.Bio,
			EventName:      conn.FirstEvent.Name,
			PathsCrossed:   conn.PathsCrossed,
			SharedEventIDs: eventIDs,
			FirstMetAt:     conn.FirstMetAt,
			LastMetAt:      conn.LastMetAt,
			Status:         conn.Status,
			RequestedByMe:  requestedByMe,
			Tags:           conn.Tags,
			Notes:          conn.Notes,
		})
	}

	return responses, nil
}

func matchesSearch(conn *models.Connection, peer *models.User, search string) bool {
	if strings.Contains(strings.ToLower(peer.Name), search) {
		return true
	}
	if strings.Contains(strings.ToLower(peer.Company), search) {
		return true
	}
	if strings.Contains(strings.ToLower(conn.FirstEvent.Name), search) {
		return true
	}
	for _, t := range conn.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

func hasTag(tags models.StringSlice, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Request moves a pair from none to requested. Requesting a user you have
// never crossed paths with is a NotFoundError: pairs exist only after
// co-attendance. Re-requesting or requesting an already-mutual pair is a
// no-op; the returned flag reports whether a transition happened.
func (s *ConnectionService) Request(fromUserID, toUserID string) (*models.Connection, bool, error) {
	if fromUserID == toUserID {
		return nil, false, fmt.Errorf("%w: cannot request a connection with yourself", models.ErrValidation)
	}

	connection, err := s.connectionRepo.FindByPair(fromUserID, toUserID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
	}
	if connection == nil {
		return nil, false, fmt.Errorf("%w: no shared event with user %s", models.ErrNotFound, toUserID)
	}

	if connection.Status != models.ConnectionStatusNone {
		return connection, false, nil
	}

	updates := map[string]interface{}{
		"status":       models.ConnectionStatusRequested,
		"requested_by": fromUserID,
	}
	if err := s.db.Model(connection).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("%w: updating connection state: %v", models.ErrPersistence, err)
	}

	connection.Status = models.ConnectionStatusRequested
	connection.RequestedBy = &fromUserID
	return connection, true, nil
}

// Respond resolves a pending request. Accepting moves the pair to mutual,
// declining back to none. Only the user who did not send the request may
// respond, and mutual is terminal.
func (s *ConnectionService) Respond(userID, fromUserID string, accept bool) (*models.Connection, error) {
	connection, err := s.connectionRepo.FindByPair(userID, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
	}
	if connection == nil {
		return nil, fmt.Errorf("%w: no connection with user %s", models.ErrNotFound, fromUserID)
	}

	if connection.Status != models.ConnectionStatusRequested ||
		connection.RequestedBy == nil || *connection.RequestedBy != fromUserID {
		return nil, fmt.Errorf("%w: no pending request from user %s", models.ErrNotFound, fromUserID)
	}
	if *connection.RequestedBy == userID {
		return nil, fmt.Errorf("%w: cannot respond to your own request", models.ErrValidation)
	}

	status := models.ConnectionStatusNone
	if accept {
		status = models.ConnectionStatusMutual
	}

	updates := map[string]interface{}{
		"status":       status,
		"requested_by": nil,
	}
	if err := s.db.Model(connection).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: updating connection state: %v", models.ErrPersistence, err)
	}

	connection.Status = status
	connection.RequestedBy = nil
	return connection, nil
}

// Disconnect resets the request state to none. Paths-crossed history is
// append-only and stays untouched.
func (s *ConnectionService) Disconnect(userID, otherUserID string) (*models.Connection, error) {
	connection, err := s.connectionRepo.FindByPair(userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
	}
	if connection == nil {
		return nil, fmt.Errorf("%w: no connection with user %s", models.ErrNotFound, otherUserID)
	}

	updates := map[string]interface{}{
		"status":       models.ConnectionStatusNone,
		"requested_by": nil,
	}
	if err := s.db.Model(connection).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: updating connection state: %v", models.ErrPersistence, err)
	}

	connection.Status = models.ConnectionStatusNone
	connection.RequestedBy = nil
	return connection, nil
}

// UpdateTags replaces the tag set on the caller's connection with the other
// user. Tags are trimmed, deduplicated and must be non-empty after trimming.
func (s *ConnectionService) UpdateTags(userID, otherUserID string, tags []string) (*models.Connection, error) {
	connection, err := s.connectionRepo.FindByPair(userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
	}
	if connection == nil {
		return nil, fmt.Errorf("%w: no connection with user %s", models.ErrNotFound, otherUserID)
	}

	normalized := utils.NormalizeTags(tags)
	if err := s.db.Model(connection).Update("tags", models.StringSlice(normalized)).Error; err != nil {
		return nil, fmt.Errorf("%w: updating tags: %v", models.ErrPersistence, err)
	}

	connection.Tags = models.StringSlice(normalized)
	return connection, nil
}

// UpdateNotes replaces the free-text notes on the caller's connection.
func (s *ConnectionService) UpdateNotes(userID, otherUserID, notes string) (*models.Connection, error) {
	connection, err := s.connectionRepo.FindByPair(userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading connection: %v", models.ErrPersistence, err)
	}
	if connection == nil {
		return nil, fmt.Errorf("%w: no connection with user %s", models.ErrNotFound, otherUserID)
	}

	notes = strings.TrimSpace(notes)
	if err := s.db.Model(connection).Update("notes", notes).Error; err != nil {
		return nil, fmt.Errorf("%w: updating notes: %v", models.ErrPersistence, err)
	}

	connection.Notes = notes
	return connection, nil
}
