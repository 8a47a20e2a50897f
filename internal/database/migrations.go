package database

import (
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.TripRequest{},
		&models.DriverTripResponse{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('rider', 'driver'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.TripRequest{}) {
		db.Exec(`ALTER TABLE trip_requests DROP CONSTRAINT IF EXISTS trip_requests_status_check`)
		if err := db.Exec(`ALTER TABLE trip_requests ADD CONSTRAINT trip_requests_status_check CHECK (status IN ('pending', 'confirmed'))`).Error; err != nil {
			return err
		}
		// Time range is also enforced at the service layer; the constraint
		// guards against writes that bypass it.
		db.Exec(`ALTER TABLE trip_requests DROP CONSTRAINT IF EXISTS trip_requests_time_range_check`)
		if err := db.Exec(`ALTER TABLE trip_requests ADD CONSTRAINT trip_requests_time_range_check CHECK (end_time > start_time)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.DriverTripResponse{}) {
		db.Exec(`ALTER TABLE driver_trip_responses DROP CONSTRAINT IF EXISTS driver_trip_responses_status_check`)
		if err := db.Exec(`ALTER TABLE driver_trip_responses ADD CONSTRAINT driver_trip_responses_status_check CHECK (status IN ('accepted', 'denied'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
