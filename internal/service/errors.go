package service

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input.  Handlers answer it with 400 and the
// message as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var (
	// ErrTableUnavailable is returned when an explicitly requested table is
	// under maintenance or already booked for the slot.
	ErrTableUnavailable = errors.New("table is not available for this slot")

	// ErrInvalidTransition is returned for a table status change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("table status transition not allowed")
)
