package queue

import (
	"errors"

	"shortform/internal/services"
)

// FailureStatus maps a stage error to the queue status the workflow manager
// should persist after the stage fails.
//
// Validation, configuration, and not-found errors describe problems a retry
// cannot fix, so they land in StatusReview. Everything else is retry-able and
// maps to StatusFailed.
func FailureStatus(err error) Status {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConfiguration),
		errors.Is(err, services.ErrNotFound):
		return StatusReview
	default:
		return StatusFailed
	}
}
