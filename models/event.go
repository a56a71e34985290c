// File: /models/event.go
package models

import (
	"time"
)

// Event is a real-world gathering instance. The coordinate is a snapshot
// taken at creation and never updated by later check-ins.
type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedBy   string    `json:"created_by" gorm:"not null;size:191"`
	CreatedAt   time.Time `json:"created_at"`

	Creator  User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CheckIns []CheckIn `json:"check_ins,omitempty" gorm:"foreignKey:EventID"`
}

// HasCoordinate reports whether the event carries a location snapshot.
func (e *Event) HasCoordinate() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// CheckIn joins one user to one event at a specific instant. At most one row
// exists per (event, user); the unique index backs that invariant under
// concurrent inserts.
type CheckIn struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:idx_checkins_event_user"`
	UserID      string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_checkins_event_user"`
	CheckedInAt time.Time `json:"checked_in_at" gorm:"not null"`

	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (CheckIn) TableName() string {
	return "checkins"
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyEvent is an event within the query radius, with its distance from
// the query point in meters.
type NearbyEvent struct {
	Event          Event   `json:"event"`
	DistanceMeters float64 `json:"distance_meters"`
}

// CheckInRequest for POST /checkins. Mode is an explicit choice made by the
// caller after inspecting nearby events; the engine never auto-merges a
// check-in into a nearby event.
type CheckInRequest struct {
	Mode        string   `json:"mode" binding:"required,oneof=new join"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	EventID     string   `json:"event_id"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

const (
	CheckInModeNew  = "new"
	CheckInModeJoin = "join"
)

// CheckInResponse for POST /checkins
type CheckInResponse struct {
	Event            Event     `json:"event"`
	CheckedInAt      time.Time `json:"checked_in_at"`
	Created          bool      `json:"created"`
	AlreadyCheckedIn bool      `json:"already_checked_in"`
	NewConnections   int       `json:"new_connections"`
}

// NearbyEventsResponse for GET /events/nearby
type NearbyEventsResponse struct {
	Count             int           `json:"count"`
	LocationAvailable bool          `json:"location_available"`
	Events            []NearbyEvent `json:"events"`
}

// EventAttendee is one attendee on the event detail view, annotated with the
// caller's relationship to them.
type EventAttendee struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Company          string    `json:"company"`
	Bio              string    `json:"bio"`
	CheckedInAt      time.Time `json:"checked_in_at"`
	PathsCrossed     int       `json:"paths_crossed"`
	ConnectionStatus string    `json:"connection_status"`
}

// EventDetailResponse for GET /events/:id
type EventDetailResponse struct {
	Event     Event           `json:"event"`
	Attendees []EventAttendee `json:"attendees"`
}
