// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeConnectionRequest  NotificationType = "connection_request"
	NotificationTypeConnectionAccepted NotificationType = "connection_accepted"
	NotificationTypeEventCheckIn       NotificationType = "event_checkin"
)

type Notification struct {
	ID           string           `json:"id" gorm:"primaryKey;size:191"`
	Type         NotificationType `json:"type" gorm:"not null;size:50"`
	ActorUserID  string           `json:"actor_user_id" gorm:"not null;size:191"`  // Who performed the action
	TargetUserID string           `json:"target_user_id" gorm:"not null;size:191"` // Who receives the notification
	EventID      *string          `json:"event_id" gorm:"size:191"`                // Optional: related event
	IsRead       bool             `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relationships
	ActorUser  User   `json:"actor_user" gorm:"foreignKey:ActorUserID"`
	TargetUser User   `json:"target_user" gorm:"foreignKey:TargetUserID"`
	Event      *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

// NotificationResponse represents the API response for notifications
type NotificationResponse struct {
	ID        string             `json:"id"`
	Type      NotificationType   `json:"type"`
	ActorUser NotificationUser   `json:"actor_user"`
	Event     *NotificationEvent `json:"event,omitempty"`
	IsRead    bool               `json:"is_read"`
	CreatedAt time.Time          `json:"created_at"`
	Message   string             `json:"message"`
}

type NotificationUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type NotificationEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NotificationStats represents notification statistics
type NotificationStats struct {
	UnreadCount int `json:"unread_count"`
	TotalCount  int `json:"total_count"`
}

// CreateNotificationParams for creating new notifications
type CreateNotificationParams struct {
	Type         NotificationType `json:"type"`
	ActorUserID  string           `json:"actor_user_id"`
	TargetUserID string           `json:"target_user_id"`
	EventID      *string          `json:"event_id,omitempty"`
}

// GetNotificationMessage returns a human-readable message for the notification
func (n *Notification) GetNotificationMessage() string {
	switch n.Type {
	case NotificationTypeConnectionRequest:
		return "wants to connect with you"
	case NotificationTypeConnectionAccepted:
		return "accepted your connection request"
	case NotificationTypeEventCheckIn:
		if n.Event != nil {
			return fmt.Sprintf("checked into %s", n.Event.Name)
		}
		return "checked into an event you attended"
	default:
		return "sent you a notification"
	}
}
