package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrChildNotFound      = fmt.Errorf("%w: child", ErrNotFound)
	ErrHypothesisNotFound = fmt.Errorf("%w: hypothesis", ErrNotFound)
	ErrArtifactNotFound   = fmt.Errorf("%w: video artifact", ErrNotFound)
	ErrCorrectionNotFound = fmt.Errorf("%w: correction", ErrNotFound)

	// Validation errors
	ErrValidation        = errors.New("validation failed")
	ErrEmptyReason       = fmt.Errorf("%w: reason is required", ErrValidation)
	ErrCertaintyRange    = fmt.Errorf("%w: certainty must be within [0,1]", ErrValidation)
	ErrUnknownEffect     = fmt.Errorf("%w: unknown evidence effect", ErrValidation)
	ErrUnknownSource     = fmt.Errorf("%w: unknown evidence source", ErrValidation)
	ErrTerminalFrozen    = fmt.Errorf("%w: hypothesis is terminal", ErrValidation)
	ErrInvalidTransition = errors.New("invalid artifact state transition")

	// Concurrency errors
	ErrConflict        = errors.New("write conflict")
	ErrVersionMismatch = fmt.Errorf("%w: stale version", ErrConflict)
	ErrUploadInFlight  = fmt.Errorf("%w: upload already in progress", ErrConflict)
	ErrDuplicateFocus  = fmt.Errorf("%w: focus already exists for child", ErrConflict)

	// Collaborator errors
	ErrTransport = errors.New("transport failure")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

func NewTransportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidTransition)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
