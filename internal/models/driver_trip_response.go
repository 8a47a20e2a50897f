package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ResponseStatusAccepted = "accepted"
	ResponseStatusDenied   = "denied"
)

// DriverTripResponse records one driver's personal outcome for one booking.
// There is exactly one row per (booking, driver) pair; a denial is permanent
// for that driver, as is an acceptance.
type DriverTripResponse struct {
	gorm.Model
	BookingID   uint      `json:"bookingId" gorm:"not null;uniqueIndex:idx_booking_driver"`
	DriverID    uint      `json:"driverId" gorm:"not null;uniqueIndex:idx_booking_driver"`
	Driver      *User     `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status      string    `json:"status" gorm:"not null"`
	RespondedAt time.Time `json:"respondedAt" gorm:"not null"`
}

// TableName specifies the table name
func (DriverTripResponse) TableName() string {
	return "driver_trip_responses"
}
