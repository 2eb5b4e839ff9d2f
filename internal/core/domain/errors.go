package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest     = errors.New("malformed request")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrServerMisconfigured  = errors.New("server misconfigured")
	ErrPersistence          = errors.New("persistence failed")
	ErrNotificationDegraded = errors.New("notification degraded")
	ErrUnauthenticated      = errors.New("unauthenticated")
)

// ValidationError names the field and the rule it violated.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "email":
		return e.Field + " must be a valid email address"
	case "max":
		return e.Field + " is too long"
	default:
		return fmt.Sprintf("%s failed validation (%s)", e.Field, e.Rule)
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
