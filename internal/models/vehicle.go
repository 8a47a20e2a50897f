package models

import (
	"gorm.io/gorm"
)

// Vehicle is a rider-registered vehicle that bookings are created against.
type Vehicle struct {
	gorm.Model
	RiderID     uint   `json:"riderId" gorm:"not null;index"`
	Rider       *User  `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	Make        string `json:"make" gorm:"not null"`
	VehicleType string `json:"vehicleType" gorm:"not null"`
	Plate       string `json:"plate" gorm:"not null"`
	Color       string `json:"color"`
	DocumentURL string `json:"documentUrl,omitempty" gorm:"default:''"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
