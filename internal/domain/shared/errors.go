// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrImmutable        = errors.New("record is immutable")

	// Authorization errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Persistence errors. StoreUnavailable wraps any failed read or write
	// against the persistence collaborator; callers must see it as-is and
	// never retry inside the engine (retries belong to the transport layer).
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "behavior", "risk", "alert"
	Op      string // Operation that failed, e.g., "Create", "Evaluate"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WrapStoreError tags a persistence failure so callers can detect it with
// errors.Is(err, ErrStoreUnavailable) regardless of which repository failed.
func WrapStoreError(domain, op string, err error) *DomainError {
	return WrapError(domain, op, ErrStoreUnavailable, "persistence operation failed", err)
}

// Behavior domain errors
var (
	ErrLogNotFound     = NewDomainError("behavior", "Find", ErrNotFound, "daily log not found")
	ErrInvalidRating   = NewDomainError("behavior", "Validate", ErrValueOutOfRange, "rating must be between 1 and 5")
	ErrLogDayImmutable = NewDomainError("behavior", "Upsert", ErrImmutable, "logs for past days cannot be changed")
)

// Risk domain errors
var (
	ErrBaselineNotFound = NewDomainError("risk", "LoadBaseline", ErrNotFound, "baseline not established")
	ErrBaselineExists   = NewDomainError("risk", "CreateBaseline", ErrAlreadyExists, "baseline already established")
	ErrAssessmentEmpty  = NewDomainError("risk", "Assess", ErrInvalidEntity, "assessment has no subject")
)

// Alert domain errors
var (
	ErrAlertNotFound      = NewDomainError("alert", "Find", ErrNotFound, "alert not found")
	ErrAlertAlreadyClosed = NewDomainError("alert", "Resolve", ErrAlreadyProcessed, "alert already resolved")
)

// Planner domain errors
var (
	ErrTaskNotFound      = NewDomainError("planner", "Find", ErrNotFound, "planner task not found")
	ErrTaskAlreadyClosed = NewDomainError("planner", "Complete", ErrAlreadyProcessed, "task already completed")
)

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrEmptyValue)
}

// IsStoreUnavailable returns true if the error came from the persistence layer.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
