package service

import (
	"errors"

	"agenda-bjj/internal/repository"
)

var (
	// ErrTaskNotFound marks lookups for codes that do not exist or whose
	// task is in the wrong state for the requested action.
	ErrTaskNotFound = errors.New("task not found or already completed")

	// ErrPastMidnight marks reschedules whose shifted window would reach
	// or cross 24:00.
	ErrPastMidnight = errors.New("rescheduled window would pass midnight")

	// ErrBadShift marks reschedule shifts outside the allowed +1h/+2h.
	ErrBadShift = errors.New("only +1h and +2h shifts are allowed")
)

// ConflictError is the overlap rejection raised by the schedule store.
type ConflictError = repository.ConflictError
