package handlers

import (
	"errors"
	"strings"

	"github.com/tripdesk/tripdesk-backend/internal/services"
)

// errorStatus maps the service error taxonomy to HTTP status codes. Anything
// outside the taxonomy is an infrastructure failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return 400
	case errors.Is(err, services.ErrNotFound):
		return 404
	case errors.Is(err, services.ErrConflict):
		return 409
	default:
		return 500
	}
}

// errorMessage strips the sentinel prefix so clients see only the
// human-readable part.
func errorMessage(err error) string {
	if errorStatus(err) == 500 {
		return "Internal server error"
	}
	msg := err.Error()
	for _, sentinel := range []error{services.ErrValidation, services.ErrNotFound, services.ErrConflict} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
			break
		}
	}
	return msg
}
