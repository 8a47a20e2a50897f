package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedFareEstimate(t *testing.T) {
	fare := NewFareEstimator().Estimate()

	assert.Equal(t, BaseFare, fare.BaseFare)
	assert.Equal(t, LateNightCharges, fare.LateNightCharges)
	assert.Equal(t, ExtraHourCharges, fare.ExtraHourCharges)
	assert.Equal(t, FestivalCharges, fare.FestivalCharges)
	assert.Equal(t, fare.BaseFare+fare.LateNightCharges+fare.ExtraHourCharges+fare.FestivalCharges, fare.Estimate)
}

func TestFixedFareChargesNonNegative(t *testing.T) {
	fare := NewFareEstimator().Estimate()

	assert.GreaterOrEqual(t, fare.BaseFare, 0.0)
	assert.GreaterOrEqual(t, fare.LateNightCharges, 0.0)
	assert.GreaterOrEqual(t, fare.ExtraHourCharges, 0.0)
	assert.GreaterOrEqual(t, fare.FestivalCharges, 0.0)
}

func TestCustomTariffSumsCharges(t *testing.T) {
	estimator := &FixedFareEstimator{
		BaseFare:         500,
		LateNightCharges: 0,
		ExtraHourCharges: 120,
		FestivalCharges:  30,
	}

	fare := estimator.Estimate()
	assert.Equal(t, 650.0, fare.Estimate)
}
