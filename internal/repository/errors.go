// Package repository holds the raw SQL data access for the service.  The
// sentinel errors below let higher layers distinguish failure scenarios:
// not-found errors become 404 responses and conflicts become 409.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrTableNotFound         = errors.New("table not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrPlanNotFound          = errors.New("plan not found")

	// ErrDuplicateTableNumber is returned when a table number is already taken.
	ErrDuplicateTableNumber = errors.New("table number already exists")

	// ErrTableInUse is returned when a table cannot be removed because
	// confirmed reservations still reference it.
	ErrTableInUse = errors.New("table has active reservations")

	// ErrConflict signals that a write lost against concurrent state, such
	// as a table that stopped being available while it was being reserved.
	ErrConflict = errors.New("conflict")
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
