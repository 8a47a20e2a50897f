package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TripStatusPending   = "pending"
	TripStatusConfirmed = "confirmed"
)

// FareBreakup is the fare computed for a booking at creation time. The
// estimate is always the sum of the four charges and is frozen on the row.
type FareBreakup struct {
	BaseFare         float64 `json:"baseFare"`
	LateNightCharges float64 `json:"lateNightCharges"`
	ExtraHourCharges float64 `json:"extraHourCharges"`
	FestivalCharges  float64 `json:"festivalCharges"`
	Estimate         float64 `json:"estimate"`
}

// TripRequest represents a rider's booking being dispatched to drivers.
// AcceptedDriverID is written exactly once, by the conditional update in the
// booking store; once non-null it never changes to a different driver.
type TripRequest struct {
	gorm.Model
	RiderID          uint       `json:"riderId" gorm:"not null;index"`
	Rider            *User      `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	VehicleID        uint       `json:"vehicleId" gorm:"not null"`
	Vehicle          *Vehicle   `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	BookingType      string     `json:"bookingType" gorm:"not null"`
	TripOption       string     `json:"tripOption" gorm:"not null"`
	Hours            *int       `json:"hours,omitempty"`
	StartTime        time.Time  `json:"startTime" gorm:"not null"`
	EndTime          time.Time  `json:"endTime" gorm:"not null"`
	PickupAddr       string     `json:"pickupAddress" gorm:"not null"`
	PickupLat        float64    `json:"pickupLat" gorm:"not null"`
	PickupLng        float64    `json:"pickupLng" gorm:"not null"`
	DropAddr         string     `json:"dropAddress" gorm:"not null"`
	DropLat          float64    `json:"dropLat" gorm:"not null"`
	DropLng          float64    `json:"dropLng" gorm:"not null"`
	Status           string     `json:"status" gorm:"not null;default:'pending'"`
	BaseFare         float64    `json:"baseFare" gorm:"not null;default:0"`
	LateNightCharges float64    `json:"lateNightCharges" gorm:"not null;default:0"`
	ExtraHourCharges float64    `json:"extraHourCharges" gorm:"not null;default:0"`
	FestivalCharges  float64    `json:"festivalCharges" gorm:"not null;default:0"`
	Estimate         float64    `json:"estimate" gorm:"not null;default:0"`
	AcceptedDriverID *uint      `json:"acceptedDriverId,omitempty" gorm:"null"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty" gorm:"null"`
	AcceptedDriver   *User      `json:"acceptedDriver,omitempty" gorm:"foreignKey:AcceptedDriverID"`
}

// TableName specifies the table name
func (TripRequest) TableName() string {
	return "trip_requests"
}

// Fare returns the frozen fare breakdown for the booking.
func (t *TripRequest) Fare() FareBreakup {
	return FareBreakup{
		BaseFare:         t.BaseFare,
		LateNightCharges: t.LateNightCharges,
		ExtraHourCharges: t.ExtraHourCharges,
		FestivalCharges:  t.FestivalCharges,
		Estimate:         t.Estimate,
	}
}

// SetFare freezes a fare breakdown onto the booking.
func (t *TripRequest) SetFare(f FareBreakup) {
	t.BaseFare = f.BaseFare
	t.LateNightCharges = f.LateNightCharges
	t.ExtraHourCharges = f.ExtraHourCharges
	t.FestivalCharges = f.FestivalCharges
	t.Estimate = f.Estimate
}
