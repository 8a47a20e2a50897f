package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripdesk/tripdesk-backend/internal/database"
	"github.com/tripdesk/tripdesk-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tests in this file run against a real Postgres instance and are skipped
// unless TEST_DATABASE_URL is set. The concurrency guarantees of
// AssignIfUnclaimed depend on the database, so the in-memory store is not a
// substitute here.
func setupTestStore(t *testing.T) (*gorm.DB, BookingStore) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))

	db.Exec("DELETE FROM driver_trip_responses")
	db.Exec("DELETE FROM trip_requests")
	db.Exec("DELETE FROM vehicles")
	db.Exec("DELETE FROM users")

	return db, NewBookingStore(db)
}

func seedUser(t *testing.T, db *gorm.DB, userType string, n int) *models.User {
	t.Helper()
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", userType, n),
		Email:       fmt.Sprintf("%s%d@example.com", userType, n),
		PhoneNumber: fmt.Sprintf("+2547000000%02d", n),
		UserType:    userType,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedConfirmedTrip(t *testing.T, db *gorm.DB, s BookingStore, rider *models.User) *models.TripRequest {
	t.Helper()
	vehicle := &models.Vehicle{RiderID: rider.ID, Make: "Nissan", VehicleType: "van", Plate: "KCB 456B"}
	require.NoError(t, db.Create(vehicle).Error)

	start := time.Now().Add(time.Hour).Truncate(time.Second)
	trip := &models.TripRequest{
		RiderID:     rider.ID,
		VehicleID:   vehicle.ID,
		BookingType: "outstation",
		TripOption:  "one-way",
		StartTime:   start,
		EndTime:     start.Add(3 * time.Hour),
		PickupAddr:  "JKIA Terminal 1A",
		PickupLat:   -1.3192,
		PickupLng:   36.9278,
		DropAddr:    "Westlands, Waiyaki Way",
		DropLat:     -1.2676,
		DropLng:     36.8070,
		Status:      models.TripStatusConfirmed,
	}
	require.NoError(t, s.CreateTripRequest(context.Background(), trip))
	return trip
}

func TestAssignIfUnclaimedConcurrent(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	rider := seedUser(t, db, "rider", 1)
	trip := seedConfirmedTrip(t, db, s, rider)

	const drivers = 8
	driverIDs := make([]uint, drivers)
	for i := 0; i < drivers; i++ {
		driverIDs[i] = seedUser(t, db, "driver", i+1).ID
	}

	var wg sync.WaitGroup
	affected := make(chan int64, drivers)

	for _, driverID := range driverIDs {
		wg.Add(1)
		go func(did uint) {
			defer wg.Done()
			rows, err := s.AssignIfUnclaimed(ctx, trip.ID, did, time.Now())
			if err != nil {
				t.Errorf("AssignIfUnclaimed: %v", err)
				return
			}
			affected <- rows
		}(driverID)
	}

	wg.Wait()
	close(affected)

	var total int64
	for rows := range affected {
		total += rows
	}
	assert.Equal(t, int64(1), total, "exactly one driver should win the race")

	claimed, err := s.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AcceptedDriverID)
	require.NotNil(t, claimed.AcceptedAt)
	assert.Contains(t, driverIDs, *claimed.AcceptedDriverID)
}

func TestAssignIfUnclaimedIdempotentForHolder(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	rider := seedUser(t, db, "rider", 1)
	driver := seedUser(t, db, "driver", 1)
	other := seedUser(t, db, "driver", 2)
	trip := seedConfirmedTrip(t, db, s, rider)

	rows, err := s.AssignIfUnclaimed(ctx, trip.ID, driver.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// The holder re-matching the guard is what makes repeat accepts succeed.
	rows, err = s.AssignIfUnclaimed(ctx, trip.ID, driver.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = s.AssignIfUnclaimed(ctx, trip.ID, other.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	claimed, err := s.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AcceptedDriverID)
	assert.Equal(t, driver.ID, *claimed.AcceptedDriverID)
}

func TestConfirmWriteCannotEraseWinner(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	rider := seedUser(t, db, "rider", 1)
	driver := seedUser(t, db, "driver", 1)
	other := seedUser(t, db, "driver", 2)
	trip := seedConfirmedTrip(t, db, s, rider)

	// Load the row the way Confirm does, then let a driver win before the
	// status write lands.
	loaded, err := s.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	require.Nil(t, loaded.AcceptedDriverID)

	rows, err := s.AssignIfUnclaimed(ctx, trip.ID, driver.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	require.NoError(t, s.UpdateStatus(ctx, loaded.ID, models.TripStatusConfirmed))

	claimed, err := s.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AcceptedDriverID)
	assert.Equal(t, driver.ID, *claimed.AcceptedDriverID)
	require.NotNil(t, claimed.AcceptedAt)

	rows, err = s.AssignIfUnclaimed(ctx, trip.ID, other.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestUpdateStatusMissingBooking(t *testing.T) {
	db, s := setupTestStore(t)
	_ = db

	err := s.UpdateStatus(context.Background(), 424242, models.TripStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignIfUnclaimedMissingBooking(t *testing.T) {
	db, s := setupTestStore(t)
	_ = db

	rows, err := s.AssignIfUnclaimed(context.Background(), 424242, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestUpsertResponseUpdatesInPlace(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	rider := seedUser(t, db, "rider", 1)
	driver := seedUser(t, db, "driver", 1)
	trip := seedConfirmedTrip(t, db, s, rider)

	first := &models.DriverTripResponse{
		BookingID:   trip.ID,
		DriverID:    driver.ID,
		Status:      models.ResponseStatusDenied,
		RespondedAt: time.Now(),
	}
	require.NoError(t, s.UpsertResponse(ctx, first))

	second := &models.DriverTripResponse{
		BookingID:   trip.ID,
		DriverID:    driver.ID,
		Status:      models.ResponseStatusAccepted,
		RespondedAt: time.Now(),
	}
	require.NoError(t, s.UpsertResponse(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.DriverTripResponse{}).
		Where("booking_id = ? AND driver_id = ?", trip.ID, driver.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp, err := s.GetResponse(ctx, trip.ID, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusAccepted, resp.Status)
}

func TestListOpenSkipsClaimed(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	rider := seedUser(t, db, "rider", 1)
	driver := seedUser(t, db, "driver", 1)

	open := seedConfirmedTrip(t, db, s, rider)
	claimed := seedConfirmedTrip(t, db, s, rider)

	rows, err := s.AssignIfUnclaimed(ctx, claimed.ID, driver.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	trips, err := s.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, open.ID, trips[0].ID)

	mine, err := s.ListAcceptedByDriver(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, claimed.ID, mine[0].ID)
}
