package utils

import (
	"github.com/tripdesk/tripdesk-backend/internal/models"
)

const (
	// Fixed charges in KES. The tariff currently ignores trip attributes;
	// richer estimators plug in behind FareEstimator without touching callers.
	BaseFare         = 350.0
	LateNightCharges = 50.0
	ExtraHourCharges = 75.0
	FestivalCharges  = 25.0
)

// FareEstimator computes the fare breakdown frozen onto a booking at
// creation time.
type FareEstimator interface {
	Estimate() models.FareBreakup
}

// FixedFareEstimator charges a flat tariff for every booking.
type FixedFareEstimator struct {
	BaseFare         float64
	LateNightCharges float64
	ExtraHourCharges float64
	FestivalCharges  float64
}

// NewFareEstimator returns the default fixed-tariff estimator.
func NewFareEstimator() *FixedFareEstimator {
	return &FixedFareEstimator{
		BaseFare:         BaseFare,
		LateNightCharges: LateNightCharges,
		ExtraHourCharges: ExtraHourCharges,
		FestivalCharges:  FestivalCharges,
	}
}

func (e *FixedFareEstimator) Estimate() models.FareBreakup {
	return models.FareBreakup{
		BaseFare:         e.BaseFare,
		LateNightCharges: e.LateNightCharges,
		ExtraHourCharges: e.ExtraHourCharges,
		FestivalCharges:  e.FestivalCharges,
		Estimate:         e.BaseFare + e.LateNightCharges + e.ExtraHourCharges + e.FestivalCharges,
	}
}
