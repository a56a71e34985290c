// File: /controllers/user_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crosspaths-api/models"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be empty"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{
		"name":     strings.TrimSpace(req.Name),
		"company":  strings.TrimSpace(req.Company),
		"location": strings.TrimSpace(req.Location),
		"bio":      strings.TrimSpace(req.Bio),
		"links":    models.LinkSlice(req.Links),
	}

	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (uc *UserController) GetSettings(c *gin.Context) {
	userID := c.GetString("user_id")

	var settings models.UserSettings
	err := uc.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Defaults when no row exists yet
			c.JSON(http.StatusOK, models.UserSettings{
				UserID:             userID,
				ProfileVisibility:  true,
				EventNotifications: true,
				ConnectionRequests: true,
				LocationSharing:    true,
				EmailUpdates:       false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (uc *UserController) UpdateSettings(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var settings models.UserSettings
	err := uc.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		settings = models.UserSettings{
			UserID:             userID,
			ProfileVisibility:  true,
			EventNotifications: true,
			ConnectionRequests: true,
			LocationSharing:    true,
		}
		if err := uc.db.Create(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create settings"})
			return
		}
	}

	updates := map[string]interface{}{}
	if req.ProfileVisibility != nil {
		updates["profile_visibility"] = *req.ProfileVisibility
	}
	if req.EventNotifications != nil {
		updates["event_notifications"] = *req.EventNotifications
	}
	if req.ConnectionRequests != nil {
		updates["connection_requests"] = *req.ConnectionRequests
	}
	if req.LocationSharing != nil {
		updates["location_sharing"] = *req.LocationSharing
	}
	if req.EmailUpdates != nil {
		updates["email_updates"] = *req.EmailUpdates
	}

	if len(updates) > 0 {
		if err := uc.db.Model(&settings).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully", "settings": settings})
}
