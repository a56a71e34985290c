// File: /controllers/notification_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crosspaths-api/models"
)

type NotificationController struct {
	db *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	var notifications []models.Notification
	if err := nc.db.Preload("ActorUser").Preload("Event").
		Where("target_user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]

		var event *models.NotificationEvent
		if n.Event != nil {
			event = &models.NotificationEvent{ID: n.Event.ID, Name: n.Event.Name}
		}

		responses = append(responses, models.NotificationResponse{
			ID:   n.ID,
			Type: n.Type,
			ActorUser: models.NotificationUser{
				ID:      n.ActorUser.ID,
				Name:    n.ActorUser.Name,
				Company: n.ActorUser.Company,
			},
			Event:     event,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
			Message:   n.GetNotificationMessage(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": responses,
		"page":          page,
		"limit":         limit,
	})
}

func (nc *NotificationController) GetNotificationStats(c *gin.Context) {
	userID := c.GetString("user_id")

	var total int64
	var unread int64

	if err := nc.db.Model(&models.Notification{}).Where("target_user_id = ?", userID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification stats"})
		return
	}
	if err := nc.db.Model(&models.Notification{}).Where("target_user_id = ? AND is_read = ?", userID, false).Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification stats"})
		return
	}

	c.JSON(http.StatusOK, models.NotificationStats{
		UnreadCount: int(unread),
		TotalCount:  int(total),
	})
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	result := nc.db.Model(&models.Notification{}).
		Where("id = ? AND target_user_id = ?", notificationID, userID).
		Update("is_read", true)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := nc.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	result := nc.db.Where("id = ? AND target_user_id = ?", notificationID, userID).
		Delete(&models.Notification{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// CreateNotification persists one notification. Called by other controllers,
// never exposed as a route.
func (nc *NotificationController) CreateNotification(params models.CreateNotificationParams) error {
	if params.ActorUserID == params.TargetUserID {
		return nil
	}

	// Respect the target's settings toggles
	var settings models.UserSettings
	if err := nc.db.Where("user_id = ?", params.TargetUserID).First(&settings).Error; err == nil {
		if params.Type == models.NotificationTypeConnectionRequest && !settings.ConnectionRequests {
			return nil
		}
		if params.Type == models.NotificationTypeEventCheckIn && !settings.EventNotifications {
			return nil
		}
	}

	notification := models.Notification{
		ID:           uuid.New().String(),
		Type:         params.Type,
		ActorUserID:  params.ActorUserID,
		TargetUserID: params.TargetUserID,
		EventID:      params.EventID,
	}

	return nc.db.Create(&notification).Error
}

func (nc *NotificationController) CreateConnectionRequestNotification(actorUserID, targetUserID string) error {
	return nc.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeConnectionRequest,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
	})
}

func (nc *NotificationController) CreateConnectionAcceptedNotification(actorUserID, targetUserID string) error {
	return nc.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeConnectionAccepted,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
	})
}

func (nc *NotificationController) CreateEventCheckInNotification(actorUserID, targetUserID, eventID string) error {
	return nc.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeEventCheckIn,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		EventID:      &eventID,
	})
}
