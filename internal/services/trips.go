package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tripdesk/tripdesk-backend/internal/models"
	"github.com/tripdesk/tripdesk-backend/internal/store"
	"github.com/tripdesk/tripdesk-backend/pkg/utils"
)

// TripConfirmedPayload is the lightweight event fanned out to drivers when a
// rider confirms a booking.
type TripConfirmedPayload struct {
	BookingID     uint      `json:"bookingId"`
	PickupAddress string    `json:"pickupAddress"`
	DropAddress   string    `json:"dropAddress"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

// DriverNotifier pushes a confirmed booking to all currently reachable
// drivers. Delivery is best-effort: implementations log failures and never
// surface them to the confirming rider.
type DriverNotifier interface {
	NotifyTripConfirmed(ctx context.Context, payload TripConfirmedPayload)
}

// CreateTripInput carries the rider's booking request.
type CreateTripInput struct {
	VehicleID   uint
	BookingType string
	TripOption  string
	Hours       *int
	StartTime   time.Time
	EndTime     time.Time
	PickupAddr  string
	PickupLat   float64
	PickupLng   float64
	DropAddr    string
	DropLat     float64
	DropLng     float64
}

// TripActionResult is returned to a driver for an accept or deny call.
// AcceptedDriverID reflects the booking's current holder, which on a lost
// race is the winning driver rather than the caller.
type TripActionResult struct {
	BookingID        uint      `json:"bookingId"`
	DriverID         uint      `json:"driverId"`
	Decision         string    `json:"decision"`
	AcceptedDriverID *uint     `json:"acceptedDriverId,omitempty"`
	RespondedAt      time.Time `json:"respondedAt"`
	Message          string    `json:"message"`
}

// TripRequestService creates and confirms bookings.
type TripRequestService struct {
	store     store.BookingStore
	estimator utils.FareEstimator
	notifier  DriverNotifier
}

func NewTripRequestService(s store.BookingStore, estimator utils.FareEstimator, notifier DriverNotifier) *TripRequestService {
	return &TripRequestService{store: s, estimator: estimator, notifier: notifier}
}

// Create validates the request, freezes the fare and persists a pending
// booking owned by riderID.
func (s *TripRequestService) Create(ctx context.Context, riderID uint, input CreateTripInput) (*models.TripRequest, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("%w: End time must be after start time", ErrValidation)
	}
	if strings.TrimSpace(input.BookingType) == "" {
		return nil, fmt.Errorf("%w: Booking type is required", ErrValidation)
	}
	if strings.TrimSpace(input.TripOption) == "" {
		return nil, fmt.Errorf("%w: Trip option is required", ErrValidation)
	}

	vehicle, err := s.store.FindOwnedVehicle(ctx, input.VehicleID, riderID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: Vehicle not found", ErrNotFound)
		}
		return nil, err
	}

	trip := &models.TripRequest{
		RiderID:     riderID,
		VehicleID:   vehicle.ID,
		BookingType: input.BookingType,
		TripOption:  input.TripOption,
		Hours:       input.Hours,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		PickupAddr:  input.PickupAddr,
		PickupLat:   input.PickupLat,
		PickupLng:   input.PickupLng,
		DropAddr:    input.DropAddr,
		DropLat:     input.DropLat,
		DropLng:     input.DropLng,
		Status:      models.TripStatusPending,
	}
	trip.SetFare(s.estimator.Estimate())

	if err := s.store.CreateTripRequest(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Confirm moves the rider's booking to confirmed and fans the event out to
// drivers. Notification delivery never affects the confirmation outcome, and
// a repeat confirm is a no-op that does not fan out again.
func (s *TripRequestService) Confirm(ctx context.Context, riderID, bookingID uint) (*models.TripRequest, error) {
	trip, err := s.store.FindByIDForRider(ctx, bookingID, riderID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: Booking not found", ErrNotFound)
		}
		return nil, err
	}

	if trip.Status == models.TripStatusConfirmed {
		return trip, nil
	}

	if err := s.store.UpdateStatus(ctx, trip.ID, models.TripStatusConfirmed); err != nil {
		return nil, err
	}
	trip.Status = models.TripStatusConfirmed

	if s.notifier != nil {
		s.notifier.NotifyTripConfirmed(ctx, TripConfirmedPayload{
			BookingID:     trip.ID,
			PickupAddress: trip.PickupAddr,
			DropAddress:   trip.DropAddr,
			StartTime:     trip.StartTime,
			EndTime:       trip.EndTime,
		})
	}

	return trip, nil
}

// Get returns a booking scoped to its owning rider.
func (s *TripRequestService) Get(ctx context.Context, riderID, bookingID uint) (*models.TripRequest, error) {
	trip, err := s.store.FindByIDForRider(ctx, bookingID, riderID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: Booking not found", ErrNotFound)
		}
		return nil, err
	}
	return trip, nil
}

// ListForRider returns all bookings owned by the rider, newest first.
func (s *TripRequestService) ListForRider(ctx context.Context, riderID uint) ([]models.TripRequest, error) {
	return s.store.ListByRider(ctx, riderID)
}

// TripResponseService resolves concurrent driver accept/deny calls for a
// booking. Correctness rests entirely on the store's conditional update;
// the service holds no locks and keeps no cross-call state.
type TripResponseService struct {
	store store.BookingStore
	now   func() time.Time
}

func NewTripResponseService(s store.BookingStore) *TripResponseService {
	return &TripResponseService{store: s, now: time.Now}
}

// Accept claims the booking for driverID. Exactly one driver can win; a
// repeat accept by the winner succeeds idempotently. A driver who previously
// denied the trip is rejected.
func (s *TripResponseService) Accept(ctx context.Context, driverID, bookingID uint) (*TripActionResult, error) {
	trip, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: Booking not found", ErrNotFound)
		}
		return nil, err
	}

	prior, err := s.store.GetResponse(ctx, bookingID, driverID)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}
	if prior != nil && prior.Status == models.ResponseStatusDenied {
		return nil, fmt.Errorf("%w: you have already denied this trip", ErrConflict)
	}

	// Fast path; the conditional update below is what actually decides.
	if trip.AcceptedDriverID != nil && *trip.AcceptedDriverID != driverID {
		return &TripActionResult{
			BookingID:        bookingID,
			DriverID:         driverID,
			AcceptedDriverID: trip.AcceptedDriverID,
		}, fmt.Errorf("%w: trip already accepted by another driver", ErrConflict)
	}

	now := s.now()
	rows, err := s.store.AssignIfUnclaimed(ctx, bookingID, driverID, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Claimed by someone else between the read above and the update.
		winner, err := s.store.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("%w: trip already accepted by another driver", ErrConflict)
		}
		log.Printf("Booking %d: driver %d lost accept race", bookingID, driverID)
		return &TripActionResult{
			BookingID:        bookingID,
			DriverID:         driverID,
			AcceptedDriverID: winner.AcceptedDriverID,
		}, fmt.Errorf("%w: trip already accepted by another driver", ErrConflict)
	}

	resp := &models.DriverTripResponse{
		BookingID:   bookingID,
		DriverID:    driverID,
		Status:      models.ResponseStatusAccepted,
		RespondedAt: now,
	}
	if err := s.store.UpsertResponse(ctx, resp); err != nil {
		return nil, err
	}

	accepted := driverID
	return &TripActionResult{
		BookingID:        bookingID,
		DriverID:         driverID,
		Decision:         models.ResponseStatusAccepted,
		AcceptedDriverID: &accepted,
		RespondedAt:      now,
		Message:          "Trip accepted successfully",
	}, nil
}

// Deny records a denial for driverID. Denial is idempotent and permanent;
// it never touches the booking's accepted driver.
func (s *TripResponseService) Deny(ctx context.Context, driverID, bookingID uint) (*TripActionResult, error) {
	trip, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: Booking not found", ErrNotFound)
		}
		return nil, err
	}

	prior, err := s.store.GetResponse(ctx, bookingID, driverID)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}
	if prior != nil {
		if prior.Status == models.ResponseStatusDenied {
			return &TripActionResult{
				BookingID:        bookingID,
				DriverID:         driverID,
				Decision:         models.ResponseStatusDenied,
				AcceptedDriverID: trip.AcceptedDriverID,
				RespondedAt:      prior.RespondedAt,
				Message:          "trip already denied",
			}, nil
		}
		return nil, fmt.Errorf("%w: you have already accepted this trip", ErrConflict)
	}

	now := s.now()
	resp := &models.DriverTripResponse{
		BookingID:   bookingID,
		DriverID:    driverID,
		Status:      models.ResponseStatusDenied,
		RespondedAt: now,
	}
	if err := s.store.UpsertResponse(ctx, resp); err != nil {
		return nil, err
	}

	return &TripActionResult{
		BookingID:        bookingID,
		DriverID:         driverID,
		Decision:         models.ResponseStatusDenied,
		AcceptedDriverID: trip.AcceptedDriverID,
		RespondedAt:      now,
		Message:          "Trip denied successfully",
	}, nil
}

// ListOpen returns confirmed bookings not yet claimed by any driver.
func (s *TripResponseService) ListOpen(ctx context.Context) ([]models.TripRequest, error) {
	return s.store.ListOpen(ctx)
}

// ListForDriver returns bookings this driver has won.
func (s *TripResponseService) ListForDriver(ctx context.Context, driverID uint) ([]models.TripRequest, error) {
	return s.store.ListAcceptedByDriver(ctx, driverID)
}
