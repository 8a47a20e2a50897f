package store

import (
	"context"
	"errors"
	"time"

	"github.com/tripdesk/tripdesk-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a booking, vehicle or response row is absent.
var ErrNotFound = errors.New("not found")

// BookingStore is the persistence boundary for trip requests and driver
// responses. AssignIfUnclaimed is the only correctness-bearing write for the
// accept race and must stay a single conditional statement.
type BookingStore interface {
	CreateTripRequest(ctx context.Context, trip *models.TripRequest) error
	FindByID(ctx context.Context, bookingID uint) (*models.TripRequest, error)
	FindByIDForRider(ctx context.Context, bookingID, riderID uint) (*models.TripRequest, error)

	// UpdateStatus writes only the status column. A full-row save here could
	// carry a stale nil accepted_driver_id over a driver's concurrent claim;
	// the assignment columns belong to AssignIfUnclaimed alone.
	UpdateStatus(ctx context.Context, bookingID uint, status string) error
	ListByRider(ctx context.Context, riderID uint) ([]models.TripRequest, error)
	ListOpen(ctx context.Context) ([]models.TripRequest, error)
	ListAcceptedByDriver(ctx context.Context, driverID uint) ([]models.TripRequest, error)

	// AssignIfUnclaimed atomically records driverID as the accepted driver if
	// the booking is still unclaimed or already held by this same driver.
	// Returns the number of rows affected: 1 on success, 0 when the race was
	// lost to another driver.
	AssignIfUnclaimed(ctx context.Context, bookingID, driverID uint, now time.Time) (int64, error)

	GetResponse(ctx context.Context, bookingID, driverID uint) (*models.DriverTripResponse, error)
	UpsertResponse(ctx context.Context, resp *models.DriverTripResponse) error

	FindOwnedVehicle(ctx context.Context, vehicleID, riderID uint) (*models.Vehicle, error)
}

type gormBookingStore struct {
	db *gorm.DB
}

// NewBookingStore returns a Postgres-backed BookingStore.
func NewBookingStore(db *gorm.DB) BookingStore {
	return &gormBookingStore{db: db}
}

func (s *gormBookingStore) CreateTripRequest(ctx context.Context, trip *models.TripRequest) error {
	return s.db.WithContext(ctx).Create(trip).Error
}

func (s *gormBookingStore) FindByID(ctx context.Context, bookingID uint) (*models.TripRequest, error) {
	var trip models.TripRequest
	err := s.db.WithContext(ctx).First(&trip, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *gormBookingStore) FindByIDForRider(ctx context.Context, bookingID, riderID uint) (*models.TripRequest, error) {
	var trip models.TripRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND rider_id = ?", bookingID, riderID).
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *gormBookingStore) UpdateStatus(ctx context.Context, bookingID uint, status string) error {
	result := s.db.WithContext(ctx).
		Model(&models.TripRequest{}).
		Where("id = ?", bookingID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormBookingStore) ListByRider(ctx context.Context, riderID uint) ([]models.TripRequest, error) {
	var trips []models.TripRequest
	err := s.db.WithContext(ctx).
		Where("rider_id = ?", riderID).
		Order("created_at DESC").
		Find(&trips).Error
	return trips, err
}

func (s *gormBookingStore) ListOpen(ctx context.Context) ([]models.TripRequest, error) {
	var trips []models.TripRequest
	err := s.db.WithContext(ctx).
		Where("status = ? AND accepted_driver_id IS NULL", models.TripStatusConfirmed).
		Order("created_at DESC").
		Find(&trips).Error
	return trips, err
}

func (s *gormBookingStore) ListAcceptedByDriver(ctx context.Context, driverID uint) ([]models.TripRequest, error) {
	var trips []models.TripRequest
	err := s.db.WithContext(ctx).
		Preload("Rider").
		Where("accepted_driver_id = ?", driverID).
		Order("accepted_at DESC").
		Find(&trips).Error
	return trips, err
}

// AssignIfUnclaimed is a compare-and-swap on accepted_driver_id. The guard in
// the WHERE clause makes re-accepts by the holder idempotent and guarantees
// no second driver can overwrite the winner. It must never be rewritten as a
// read followed by a write.
func (s *gormBookingStore) AssignIfUnclaimed(ctx context.Context, bookingID, driverID uint, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.TripRequest{}).
		Where("id = ? AND (accepted_driver_id IS NULL OR accepted_driver_id = ?)", bookingID, driverID).
		Updates(map[string]interface{}{
			"accepted_driver_id": driverID,
			"accepted_at":        now,
		})
	return result.RowsAffected, result.Error
}

func (s *gormBookingStore) GetResponse(ctx context.Context, bookingID, driverID uint) (*models.DriverTripResponse, error) {
	var resp models.DriverTripResponse
	err := s.db.WithContext(ctx).
		Where("booking_id = ? AND driver_id = ?", bookingID, driverID).
		First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *gormBookingStore) UpsertResponse(ctx context.Context, resp *models.DriverTripResponse) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}, {Name: "driver_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "responded_at", "updated_at"}),
	}).Create(resp).Error
}

func (s *gormBookingStore) FindOwnedVehicle(ctx context.Context, vehicleID, riderID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.WithContext(ctx).
		Where("id = ? AND rider_id = ?", vehicleID, riderID).
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
