package catalog

import "errors"

var (
	ErrForbidden         = errors.New("forbidden")
	ErrHallNotFound      = errors.New("hall not found")
	ErrPerformerNotFound = errors.New("performer not found")
	ErrInvalidPrices     = errors.New("prices must not be negative")
)
