package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for point lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken means an active reservation already holds a conflicting
	// slot cell on the same hall and day.
	ErrSlotTaken = errors.New("slot already reserved")
	// ErrDuplicateAttachment means the customer already has an active
	// request for the same performer.
	ErrDuplicateAttachment = errors.New("performer already attached")
	// ErrStatusConflict is returned when a status transition finds the row
	// in a state other than the expected ones.
	ErrStatusConflict = errors.New("status changed concurrently")
	ErrEmailTaken     = errors.New("email already registered")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
