// File: /controllers/checkin_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"crosspaths-api/config"
	"crosspaths-api/models"
	"crosspaths-api/services"
	"crosspaths-api/utils"
)

// CheckInController is the inbound surface of the encounter engine:
// submitCheckIn and queryNearbyEvents.
type CheckInController struct {
	cfg                    *config.Config
	geoService             *services.GeoService
	checkinService         *services.CheckInService
	connectionService      *services.ConnectionService
	notificationController *NotificationController
}

func NewCheckInController(cfg *config.Config, geoService *services.GeoService, checkinService *services.CheckInService, connectionService *services.ConnectionService, notificationController *NotificationController) *CheckInController {
	return &CheckInController{
		cfg:                    cfg,
		geoService:             geoService,
		checkinService:         checkinService,
		connectionService:      connectionService,
		notificationController: notificationController,
	}
}

// GetNearbyEvents handles GET /events/nearby?lat=&lng=
// Missing coordinates are a degraded input, not an error: the response
// carries location_available=false and an empty list.
func (cc *CheckInController) GetNearbyEvents(c *gin.Context) {
	var coord *models.Coordinate

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil || !utils.IsValidLatitude(lat) || !utils.IsValidLongitude(lng) {
			utils.SendValidationError(c, "invalid coordinates")
			return
		}
		coord = &models.Coordinate{Latitude: lat, Longitude: lng}
	}

	nearby, locationAvailable, err := cc.geoService.FindNearby(
		coord, time.Now(), cc.cfg.NearbyRadiusMeters, cc.cfg.NearbyWindow, cc.cfg.NearbyLimit)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NearbyEventsResponse{
		Count:             len(nearby),
		LocationAvailable: locationAvailable,
		Events:            nearby,
	})
}

// SubmitCheckIn handles POST /checkins. The request explicitly targets
// either a new event or an existing one by id; a repeat check-in comes back
// as 200 with already_checked_in set, never as a failure.
func (cc *CheckInController) SubmitCheckIn(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()

	event, created, err := cc.checkinService.Resolve(req, userID, now)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	result, err := cc.checkinService.CheckIn(event.ID, userID, now)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	// Feed every newly co-present pair into the aggregator. Each call is
	// idempotent per (pair, event), so a partial failure here can be
	// replayed by the next check-in without double-counting.
	for _, pair := range result.NewPairs {
		if _, err := cc.connectionService.RecordSharedEvent(pair.UserAID, pair.UserBID, event.ID, now); err != nil {
			utils.SendEngineError(c, err)
			return
		}

		other := pair.UserAID
		if other == userID {
			other = pair.UserBID
		}
		if err := cc.notificationController.CreateEventCheckInNotification(userID, other, event.ID); err != nil {
			fmt.Printf("Failed to create check-in notification: %v\n", err)
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	c.JSON(status, models.CheckInResponse{
		Event:            *event,
		CheckedInAt:      result.CheckIn.CheckedInAt,
		Created:          created,
		AlreadyCheckedIn: result.AlreadyCheckedIn,
		NewConnections:   len(result.NewPairs),
	})
}

// GetCheckedInEvents handles GET /events/checked-in
func (cc *CheckInController) GetCheckedInEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	checkins, err := cc.checkinService.ListUserCheckIns(userID)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkins": checkins})
}
