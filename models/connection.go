// File: /models/connection.go
package models

import "time"

type ConnectionStatus string

const (
	ConnectionStatusNone      ConnectionStatus = "none"
	ConnectionStatusRequested ConnectionStatus = "requested"
	ConnectionStatusMutual    ConnectionStatus = "mutual"
)

// Connection is the persistent relationship record between two users. The
// pair is stored canonically with UserAID < UserBID so (A,B) and (B,A) are
// the same row. PathsCrossed is derived: it must equal the number of
// connection_events rows at all times and is only ever moved by
// RecordSharedEvent.
type Connection struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	UserAID      string           `json:"user_a_id" gorm:"not null;size:191;uniqueIndex:idx_connections_pair"`
	UserBID      string           `json:"user_b_id" gorm:"not null;size:191;uniqueIndex:idx_connections_pair"`
	PathsCrossed int              `json:"paths_crossed" gorm:"not null;default:0"`
	FirstMetAt   time.Time        `json:"first_met_at" gorm:"not null"`
	LastMetAt    time.Time        `json:"last_met_at" gorm:"not null"`
	FirstEventID string           `json:"first_event_id" gorm:"not null;size:191"`
	Status       ConnectionStatus `json:"status" gorm:"not null;default:'none';size:20"`
	RequestedBy  *string          `json:"requested_by" gorm:"size:191"`
	Tags         StringSlice      `json:"tags" gorm:"type:json"`
	Notes        string           `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	UserA      User          `json:"-" gorm:"foreignKey:UserAID"`
	UserB      User          `json:"-" gorm:"foreignKey:UserBID"`
	FirstEvent Event         `json:"-" gorm:"foreignKey:FirstEventID"`
	Events     []ConnectionEvent `json:"-" gorm:"foreignKey:ConnectionID"`
}

// OtherUserID returns the peer of userID within the pair.
func (c *Connection) OtherUserID(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// ConnectionEvent records one shared event for a pair. The unique index is
// what makes RecordSharedEvent idempotent per (pair, event): a second
// detection of the same shared event inserts nothing and moves no counter.
type ConnectionEvent struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ConnectionID uint      `json:"connection_id" gorm:"not null;uniqueIndex:idx_connection_events_pair_event"`
	EventID      string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:idx_connection_events_pair_event"`
	MetAt        time.Time `json:"met_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	Connection Connection `json:"-" gorm:"foreignKey:ConnectionID"`
	Event      Event      `json:"-" gorm:"foreignKey:EventID"`
}

func (ConnectionEvent) TableName() string {
	return "connection_events"
}

// CanonicalPair orders two user ids into the stored (UserAID, UserBID) form.
func CanonicalPair(user1ID, user2ID string) (string, string) {
	if user1ID > user2ID {
		return user2ID, user1ID
	}
	return user1ID, user2ID
}

// ConnectionResponse is one connection from the caller's point of view.
type ConnectionResponse struct {
	ID             uint             `json:"id"`
	UserID         string           `json:"user_id"`
	Name           string           `json:"name"`
	Company        string           `json:"company"`
	Bio            string           `json:"bio"`
	EventName      string           `json:"event_name"`
	PathsCrossed   int              `json:"paths_crossed"`
	SharedEventIDs []string         `json:"shared_event_ids"`
	FirstMetAt     time.Time        `json:"first_met_at"`
	LastMetAt      time.Time        `json:"last_met_at"`
	Status         ConnectionStatus `json:"status"`
	RequestedByMe  bool             `json:"requested_by_me"`
	Tags           StringSlice      `json:"tags"`
	Notes          string           `json:"notes"`
}

// ConnectionListResponse for GET /connections
type ConnectionListResponse struct {
	Count       int                  `json:"count"`
	Connections []ConnectionResponse `json:"connections"`
}

// RespondConnectionRequest for POST /connections/:user_id/respond
type RespondConnectionRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// UpdateTagsRequest for PUT /connections/:user_id/tags
type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

// UpdateNotesRequest for PUT /connections/:user_id/notes
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}
