package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripdesk/tripdesk-backend/internal/services"
)

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, 400, errorStatus(fmt.Errorf("%w: End time must be after start time", services.ErrValidation)))
	assert.Equal(t, 404, errorStatus(fmt.Errorf("%w: Booking not found", services.ErrNotFound)))
	assert.Equal(t, 409, errorStatus(fmt.Errorf("%w: trip already accepted by another driver", services.ErrConflict)))
	assert.Equal(t, 500, errorStatus(errors.New("connection refused")))
}

func TestErrorMessageStripsSentinel(t *testing.T) {
	err := fmt.Errorf("%w: Booking not found", services.ErrNotFound)
	assert.Equal(t, "Booking not found", errorMessage(err))

	err = fmt.Errorf("%w: you have already denied this trip", services.ErrConflict)
	assert.Equal(t, "you have already denied this trip", errorMessage(err))
}

func TestErrorMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "Internal server error", errorMessage(errors.New("pq: connection reset by peer")))
}
