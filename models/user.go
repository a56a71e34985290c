// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password      string    `json:"-" gorm:"not null;size:255"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	Company       string    `json:"company" gorm:"size:255"`
	Location      string    `json:"location" gorm:"size:255"`
	Bio           string    `json:"bio" gorm:"type:text"`
	Links         LinkSlice `json:"links" gorm:"type:json"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	CreatedEvents []Event   `json:"created_events,omitempty" gorm:"foreignKey:CreatedBy"`
	CheckIns      []CheckIn `json:"check_ins,omitempty" gorm:"foreignKey:UserID"`
}

// UserSettings stores per-user toggles. Owned by the presentation layer;
// the engine only persists them.
type UserSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             string    `json:"user_id" gorm:"not null;uniqueIndex;size:191"`
	ProfileVisibility  bool      `json:"profile_visibility" gorm:"default:true"`
	EventNotifications bool      `json:"event_notifications" gorm:"default:true"`
	ConnectionRequests bool      `json:"connection_requests" gorm:"default:true"`
	LocationSharing    bool      `json:"location_sharing" gorm:"default:true"`
	EmailUpdates       bool      `json:"email_updates" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// UpdateProfileRequest for PUT /users/profile
type UpdateProfileRequest struct {
	Name     string        `json:"name" binding:"required"`
	Company  string        `json:"company"`
	Location string        `json:"location"`
	Bio      string        `json:"bio"`
	Links    []ProfileLink `json:"links"`
}

// UpdateSettingsRequest for PUT /users/settings
type UpdateSettingsRequest struct {
	ProfileVisibility  *bool `json:"profile_visibility"`
	EventNotifications *bool `json:"event_notifications"`
	ConnectionRequests *bool `json:"connection_requests"`
	LocationSharing    *bool `json:"location_sharing"`
	EmailUpdates       *bool `json:"email_updates"`
}
