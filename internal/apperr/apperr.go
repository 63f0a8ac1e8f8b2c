// Package apperr defines the domain error taxonomy shared by the service,
// repository, and HTTP layers. Every expected failure carries a stable
// machine-readable reason code so clients can map it to a localized message.
package apperr

import (
	"errors"
	"fmt"
)

// Reason codes surfaced in error responses.
const (
	ReasonMissingFields     = "missing_fields"
	ReasonInvalidDate       = "invalid_date"
	ReasonDayFull           = "day_full"
	ReasonAlreadyRegistered = "already_registered"
	ReasonNotFound          = "not_found"
	ReasonUnauthorized      = "unauthorized"
	ReasonInternal          = "internal_error"
)

// ErrNotFound is returned when a delete target does not exist.
var ErrNotFound = errors.New("registration not found")

// ErrDayFull is returned when a regular day already holds its capacity.
var ErrDayFull = errors.New("this day is already full")

// ErrAlreadyRegistered is returned when the same phone number signs up twice
// for the same day.
var ErrAlreadyRegistered = errors.New("phone number already registered for this day")

// ErrUnauthorized is returned for a bad shared secret, and for every admin
// request while no secret is configured (fail closed).
var ErrUnauthorized = errors.New("invalid admin secret")

// ValidationError reports bad or missing input.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation constructs a ValidationError with the given reason code.
func Validation(code, format string, args ...any) error {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Reason maps a domain error to its reason code. Unknown errors map to
// ReasonInternal and must not leak detail to the client.
func Reason(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Code
	case errors.Is(err, ErrDayFull):
		return ReasonDayFull
	case errors.Is(err, ErrAlreadyRegistered):
		return ReasonAlreadyRegistered
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnauthorized):
		return ReasonUnauthorized
	default:
		return ReasonInternal
	}
}
