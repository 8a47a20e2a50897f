package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tripdesk/tripdesk-backend/internal/models"
)

// MemoryStore is an in-memory BookingStore for tests and local development.
// The mutex around AssignIfUnclaimed gives it the same single-winner
// semantics as the guarded UPDATE in the Postgres store.
type MemoryStore struct {
	mu            sync.Mutex
	trips         map[uint]models.TripRequest
	responses     map[string]models.DriverTripResponse
	vehicles      map[uint]models.Vehicle
	nextTripID    uint
	nextVehicleID uint
	nextRespID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:     make(map[uint]models.TripRequest),
		responses: make(map[string]models.DriverTripResponse),
		vehicles:  make(map[uint]models.Vehicle),
	}
}

func respKey(bookingID, driverID uint) string {
	return fmt.Sprintf("%d:%d", bookingID, driverID)
}

// AddVehicle seeds a vehicle and assigns its ID.
func (m *MemoryStore) AddVehicle(v *models.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextVehicleID++
	v.ID = m.nextVehicleID
	m.vehicles[v.ID] = *v
}

// TripCount reports how many bookings have been persisted.
func (m *MemoryStore) TripCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// ResponseCount reports how many driver response rows exist.
func (m *MemoryStore) ResponseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

func (m *MemoryStore) CreateTripRequest(ctx context.Context, trip *models.TripRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTripID++
	trip.ID = m.nextTripID
	trip.CreatedAt = time.Now()
	m.trips[trip.ID] = *trip
	return nil
}

func (m *MemoryStore) FindByID(ctx context.Context, bookingID uint) (*models.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &trip, nil
}

func (m *MemoryStore) FindByIDForRider(ctx context.Context, bookingID, riderID uint) (*models.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[bookingID]
	if !ok || trip.RiderID != riderID {
		return nil, ErrNotFound
	}
	return &trip, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, bookingID uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[bookingID]
	if !ok {
		return ErrNotFound
	}
	trip.Status = status
	m.trips[bookingID] = trip
	return nil
}

func (m *MemoryStore) ListByRider(ctx context.Context, riderID uint) ([]models.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var trips []models.TripRequest
	for _, trip := range m.trips {
		if trip.RiderID == riderID {
			trips = append(trips, trip)
		}
	}
	sortByCreatedDesc(trips)
	return trips, nil
}

func (m *MemoryStore) ListOpen(ctx context.Context) ([]models.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var trips []models.TripRequest
	for _, trip := range m.trips {
		if trip.Status == models.TripStatusConfirmed && trip.AcceptedDriverID == nil {
			trips = append(trips, trip)
		}
	}
	sortByCreatedDesc(trips)
	return trips, nil
}

func (m *MemoryStore) ListAcceptedByDriver(ctx context.Context, driverID uint) ([]models.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var trips []models.TripRequest
	for _, trip := range m.trips {
		if trip.AcceptedDriverID != nil && *trip.AcceptedDriverID == driverID {
			trips = append(trips, trip)
		}
	}
	sortByCreatedDesc(trips)
	return trips, nil
}

func (m *MemoryStore) AssignIfUnclaimed(ctx context.Context, bookingID, driverID uint, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[bookingID]
	if !ok {
		return 0, nil
	}
	if trip.AcceptedDriverID != nil && *trip.AcceptedDriverID != driverID {
		return 0, nil
	}
	trip.AcceptedDriverID = &driverID
	trip.AcceptedAt = &now
	m.trips[bookingID] = trip
	return 1, nil
}

func (m *MemoryStore) GetResponse(ctx context.Context, bookingID, driverID uint) (*models.DriverTripResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.responses[respKey(bookingID, driverID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &resp, nil
}

func (m *MemoryStore) UpsertResponse(ctx context.Context, resp *models.DriverTripResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := respKey(resp.BookingID, resp.DriverID)
	if existing, ok := m.responses[key]; ok {
		existing.Status = resp.Status
		existing.RespondedAt = resp.RespondedAt
		m.responses[key] = existing
		return nil
	}
	m.nextRespID++
	resp.ID = m.nextRespID
	m.responses[key] = *resp
	return nil
}

func (m *MemoryStore) FindOwnedVehicle(ctx context.Context, vehicleID, riderID uint) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[vehicleID]
	if !ok || vehicle.RiderID != riderID {
		return nil, ErrNotFound
	}
	return &vehicle, nil
}

func sortByCreatedDesc(trips []models.TripRequest) {
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
}
