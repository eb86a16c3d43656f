package booking

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrPastDate       = errors.New("date is in the past")
	ErrRangeTooLarge  = errors.New("date range too large")

	ErrHallNotFound        = errors.New("hall not found")
	ErrPerformerNotFound   = errors.New("performer not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrPerformerAlreadyBooked = errors.New("performer already booked")
	ErrAlreadyResponded       = errors.New("reservation already responded")
	ErrInvalidStatus          = errors.New("reservation cannot be changed in its current status")

	ErrNoHallReservation = errors.New("hall reservation required")

	ErrForbidden     = errors.New("forbidden")
	ErrInvalidToken  = errors.New("invalid action token")
	ErrUnknownAction = errors.New("unknown action")
)
