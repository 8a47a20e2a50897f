package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"github.com/tripdesk/tripdesk-backend/internal/services"
)

type locationInput struct {
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
	Address string  `json:"address" binding:"required"`
}

// CreateBooking creates a pending trip request for the rider
func CreateBooking(svc *services.TripRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeRider) {
			c.JSON(403, gin.H{"error": "Only riders can create bookings"})
			return
		}

		var input struct {
			VehicleID   uint          `json:"vehicleId" binding:"required"`
			BookingType string        `json:"bookingType" binding:"required"`
			TripOption  string        `json:"tripOption" binding:"required"`
			Hours       *int          `json:"hours"`
			StartTime   time.Time     `json:"startTime" binding:"required"`
			EndTime     time.Time     `json:"endTime" binding:"required"`
			Pickup      locationInput `json:"pickup" binding:"required"`
			Drop        locationInput `json:"drop" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		trip, err := svc.Create(c.Request.Context(), riderID, services.CreateTripInput{
			VehicleID:   input.VehicleID,
			BookingType: input.BookingType,
			TripOption:  input.TripOption,
			Hours:       input.Hours,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			PickupAddr:  input.Pickup.Address,
			PickupLat:   input.Pickup.Lat,
			PickupLng:   input.Pickup.Lng,
			DropAddr:    input.Drop.Address,
			DropLat:     input.Drop.Lat,
			DropLng:     input.Drop.Lng,
		})
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
			return
		}

		c.JSON(201, gin.H{
			"message": "Booking created successfully",
			"booking": trip,
			"fare":    trip.Fare(),
		})
	}
}

// ConfirmBooking confirms a pending booking and fans it out to drivers
func ConfirmBooking(svc *services.TripRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		trip, err := svc.Confirm(c.Request.Context(), riderID, uint(bookingID))
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
			return
		}

		c.JSON(200, gin.H{
			"message": "Booking confirmed. Notifying available drivers.",
			"booking": trip,
		})
	}
}

// GetBooking returns one of the rider's bookings
func GetBooking(svc *services.TripRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		trip, err := svc.Get(c.Request.Context(), riderID, uint(bookingID))
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
			return
		}

		c.JSON(200, trip)
	}
}

// GetMyBookings lists the rider's bookings
func GetMyBookings(svc *services.TripRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		trips, err := svc.ListForRider(c.Request.Context(), riderID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, trips)
	}
}
