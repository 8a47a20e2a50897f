package services

import (
	"errors"

	"github.com/tripdesk/tripdesk-backend/internal/store"
)

// Sentinel errors for the dispatch core. Conflict is a normal business
// outcome (a lost race, a reversed decision), not something to alert on.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = store.ErrNotFound
	ErrConflict   = errors.New("conflict")
)
