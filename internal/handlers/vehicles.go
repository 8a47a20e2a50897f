package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"github.com/tripdesk/tripdesk-backend/internal/services"
	"gorm.io/gorm"
)

// RegisterVehicle adds a vehicle to the rider's fleet
func RegisterVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeRider) {
			c.JSON(403, gin.H{"error": "Only riders can register vehicles"})
			return
		}

		var input struct {
			Make        string `json:"make" binding:"required"`
			VehicleType string `json:"vehicleType" binding:"required"`
			Plate       string `json:"plate" binding:"required"`
			Color       string `json:"color"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			RiderID:     riderID,
			Make:        input.Make,
			VehicleType: input.VehicleType,
			Plate:       input.Plate,
			Color:       input.Color,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register vehicle"})
			return
		}

		c.JSON(201, vehicle)
	}
}

// GetVehicles lists the rider's vehicles
func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		var vehicles []models.Vehicle
		if err := db.Where("rider_id = ?", riderID).Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// GetVehicle returns one of the rider's vehicles
func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")
		vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("id = ? AND rider_id = ?", vehicleID, riderID).First(&vehicle).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// DeleteVehicle removes one of the rider's vehicles
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")
		vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("id = ? AND rider_id = ?", vehicleID, riderID).First(&vehicle).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted successfully"})
	}
}

// UploadVehicleDocument stores a registration document for the vehicle
func UploadVehicleDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")
		vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("id = ? AND rider_id = ?", vehicleID, riderID).First(&vehicle).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		file, err := c.FormFile("document")
		if err != nil {
			c.JSON(400, gin.H{"error": "Document file is required"})
			return
		}

		url, err := services.UploadDocument(file, "vehicles")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload document"})
			return
		}

		vehicle.DocumentURL = url
		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save document URL"})
			return
		}

		c.JSON(201, gin.H{
			"message":     "Document uploaded successfully",
			"documentUrl": url,
		})
	}
}
