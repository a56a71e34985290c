// File: /controllers/connection_controller.go
package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crosspaths-api/models"
	"crosspaths-api/services"
	"crosspaths-api/utils"
)

type ConnectionController struct {
	connectionService      *services.ConnectionService
	notificationController *NotificationController
}

func NewConnectionController(connectionService *services.ConnectionService, notificationController *NotificationController) *ConnectionController {
	return &ConnectionController{
		connectionService:      connectionService,
		notificationController: notificationController,
	}
}

// GetConnections handles GET /connections?search=&tag=&sort=
// Default ordering is insertion order of the underlying connections;
// sort=recent switches to last_met descending.
func (cc *ConnectionController) GetConnections(c *gin.Context) {
	userID := c.GetString("user_id")
	search := c.Query("search")
	tag := c.DefaultQuery("tag", "all")
	recent := c.Query("sort") == "recent"

	connections, err := cc.connectionService.ListConnections(userID, search, tag, recent)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConnectionListResponse{
		Count:       len(connections),
		Connections: connections,
	})
}

// RequestConnection handles POST /connections/:user_id/request
func (cc *ConnectionController) RequestConnection(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("user_id")

	connection, changed, err := cc.connectionService.Request(userID, targetUserID)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	if changed {
		if err := cc.notificationController.CreateConnectionRequestNotification(userID, targetUserID); err != nil {
			fmt.Printf("Failed to create connection request notification: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Connection request sent",
		"connection": connection,
	})
}

// RespondConnection handles POST /connections/:user_id/respond where
// :user_id is the user who sent the request.
func (cc *ConnectionController) RespondConnection(c *gin.Context) {
	userID := c.GetString("user_id")
	fromUserID := c.Param("user_id")

	var req models.RespondConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connection, err := cc.connectionService.Respond(userID, fromUserID, *req.Accept)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	message := "Connection request declined"
	if *req.Accept {
		message = "Connection request accepted"
		if err := cc.notificationController.CreateConnectionAcceptedNotification(userID, fromUserID); err != nil {
			fmt.Printf("Failed to create connection accepted notification: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"connection": connection,
	})
}

// Disconnect handles DELETE /connections/:user_id/request — resets the
// request state to none. Paths-crossed history stays intact.
func (cc *ConnectionController) Disconnect(c *gin.Context) {
	userID := c.GetString("user_id")
	otherUserID := c.Param("user_id")

	connection, err := cc.connectionService.Disconnect(userID, otherUserID)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Connection reset",
		"connection": connection,
	})
}

// UpdateTags handles PUT /connections/:user_id/tags
func (cc *ConnectionController) UpdateTags(c *gin.Context) {
	userID := c.GetString("user_id")
	otherUserID := c.Param("user_id")

	var req models.UpdateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connection, err := cc.connectionService.UpdateTags(userID, otherUserID, req.Tags)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Tags updated",
		"connection": connection,
	})
}

// UpdateNotes handles PUT /connections/:user_id/notes
func (cc *ConnectionController) UpdateNotes(c *gin.Context) {
	userID := c.GetString("user_id")
	otherUserID := c.Param("user_id")

	var req models.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connection, err := cc.connectionService.UpdateNotes(userID, otherUserID, req.Notes)
	if err != nil {
		utils.SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Notes updated",
		"connection": connection,
	})
}
