package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken is returned when the requested date and time is already
	// held by a pending or confirmed appointment.
	ErrSlotTaken = errors.New("slot taken")

	// ErrLimitReached is returned when a client already has the maximum
	// number of active appointments.
	ErrLimitReached = errors.New("active appointment limit reached")

	// ErrServiceInUse is returned when a service cannot be deactivated or
	// deleted because appointments still reference it.
	ErrServiceInUse = errors.New("service has appointments")
)

// ValidationError reports user input that cannot be interpreted. Handlers
// and the dialog engine re-prompt instead of failing the turn.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
