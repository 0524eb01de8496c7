package repository

import (
	"fmt"

	"agenda-bjj/internal/model"
)

// ConflictError reports that a time window would overlap another active item
// on the same date.
type ConflictError struct {
	With model.ScheduleItem
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with %s (%s %s - %s)",
		e.With.Code, e.With.Date, e.With.Start, e.With.End)
}
