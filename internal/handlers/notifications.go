package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"github.com/tripdesk/tripdesk-backend/internal/services"
	"gorm.io/gorm"
)

// RegisterFCMToken registers or updates a user's FCM token
func RegisterFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		var input struct {
			FCMToken string `json:"fcmToken" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", input.FCMToken).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register FCM token"})
			return
		}

		// Drivers with a registered token count as push-reachable.
		if userType == string(models.UserTypeDriver) && services.RedisClient != nil {
			ctx := context.Background()
			services.SetDriverAvailability(ctx, userID, true)
		}

		c.JSON(200, gin.H{"message": "FCM token registered successfully"})
	}
}

// RemoveFCMToken removes a user's FCM token
func RemoveFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		if err := db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", "").Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to remove FCM token"})
			return
		}

		if userType == string(models.UserTypeDriver) && services.RedisClient != nil {
			ctx := context.Background()
			services.SetDriverAvailability(ctx, userID, false)
		}

		c.JSON(200, gin.H{"message": "FCM token removed successfully"})
	}
}
