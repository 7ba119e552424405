package complaint

import (
	"dcms/backend/internal/location"
	"dcms/backend/internal/models"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidLocation   = location.ErrInvalidLocation
	ErrFieldNotAllowed   = errors.New("field not allowed")
	ErrNotFound          = errors.New("complaint not found")
	ErrValidation        = errors.New("validation failed")
)

// TransitionError carries the rejected edge of the status graph.
type TransitionError struct {
	From models.Status
	To   models.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError names the payload fields an update is not allowed to touch.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("only status and remarks can be updated, got: %s", strings.Join(e.Fields, ", "))
}

func (e *FieldError) Unwrap() error { return ErrFieldNotAllowed }

// LocationError is returned for missing or unknown province/district/office values.
type LocationError = location.Error

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
