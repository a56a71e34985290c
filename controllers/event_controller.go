// File: /controllers/event_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crosspaths-api/models"
	"crosspaths-api/repositories"
)

type EventController struct {
	db             *gorm.DB
	connectionRepo *repositories.ConnectionRepository
}

func NewEventController(db *gorm.DB, connectionRepo *repositories.ConnectionRepository) *EventController {
	return &EventController{db: db, connectionRepo: connectionRepo}
}

// GetEvent handles GET /events/:id — the event with its attendee list, each
// attendee annotated with the caller's paths-crossed count and connection
// status.
func (ec *EventController) GetEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.Preload("Creator").First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	event.Creator.Password = ""

	var checkins []models.CheckIn
	if err := ec.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("checked_in_at ASC").
		Find(&checkins).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendees"})
		return
	}

	attendees := make([]models.EventAttendee, 0, len(checkins))
	for _, checkin := range checkins {
		if checkin.UserID == userID {
			continue
		}

		attendee := models.EventAttendee{
			ID:               checkin.User.ID,
			Name:             checkin.User.Name,
			Company:          checkin.User.Company,
			Bio:              checkin.User.Bio,
			CheckedInAt:      checkin.CheckedInAt,
			ConnectionStatus: string(models.ConnectionStatusNone),
		}

		connection, err := ec.connectionRepo.FindByPair(userID, checkin.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch connections"})
			return
		}
		if connection != nil {
			attendee.PathsCrossed = connection.PathsCrossed
			attendee.ConnectionStatus = string(connection.Status)
		}

		attendees = append(attendees, attendee)
	}

	c.JSON(http.StatusOK, models.EventDetailResponse{
		Event:     event,
		Attendees: attendees,
	})
}
