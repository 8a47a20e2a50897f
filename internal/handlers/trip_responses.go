package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"github.com/tripdesk/tripdesk-backend/internal/services"
	"gorm.io/gorm"
)

// AcceptTrip lets a driver claim a confirmed booking. Many drivers may race
// here; the response service guarantees a single winner.
func AcceptTrip(svc *services.TripResponseService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can accept trips"})
			return
		}

		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		result, err := svc.Accept(c.Request.Context(), driverID, uint(bookingID))
		if err != nil {
			body := gin.H{"error": errorMessage(err)}
			if result != nil {
				body["bookingId"] = result.BookingID
				body["acceptedDriverId"] = result.AcceptedDriverID
			}
			c.JSON(errorStatus(err), body)
			return
		}

		// Tell the rider who won. Best effort, like the fan-out.
		var trip models.TripRequest
		if err := db.First(&trip, bookingID).Error; err == nil {
			hub.SendTripAccepted(trip.RiderID, trip.ID, driverID)
			if services.RedisClient != nil {
				ctx := context.Background()
				services.PublishTripAccepted(ctx, trip.ID, driverID)
			}
		}

		c.JSON(200, result)
	}
}

// DenyTrip records a driver's denial of a booking
func DenyTrip(svc *services.TripResponseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can deny trips"})
			return
		}

		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		result, err := svc.Deny(c.Request.Context(), driverID, uint(bookingID))
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
			return
		}

		c.JSON(200, result)
	}
}

// GetOpenTrips lists confirmed bookings no driver has claimed yet
func GetOpenTrips(svc *services.TripResponseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can view open trips"})
			return
		}

		trips, err := svc.ListOpen(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch open trips"})
			return
		}

		c.JSON(200, trips)
	}
}

// GetDriverTrips lists bookings this driver has accepted
func GetDriverTrips(svc *services.TripResponseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can view assigned trips"})
			return
		}

		trips, err := svc.ListForDriver(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch assigned trips"})
			return
		}

		c.JSON(200, trips)
	}
}
