package domain

import "fmt"

// Error types for consistent error handling across the admin API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrInvalidPeriod indicates an unrecognized reporting period keyword.
type ErrInvalidPeriod struct {
	Period string
}

func (e *ErrInvalidPeriod) Error() string {
	return fmt.Sprintf("invalid period: %q", e.Period)
}

// ErrMalformedPromotion indicates a promotion record missing data
// required to evaluate its validity window.
type ErrMalformedPromotion struct {
	ID     string
	Reason string
}

func (e *ErrMalformedPromotion) Error() string {
	return fmt.Sprintf("malformed promotion %s: %s", e.ID, e.Reason)
}

// ErrEmptyExport indicates a report was requested over zero transactions.
type ErrEmptyExport struct{}

func (e *ErrEmptyExport) Error() string {
	return "no transactions to export"
}

// ErrDispatchConflict indicates another worker already claimed the
// notification for dispatch.
type ErrDispatchConflict struct {
	NotificationID string
}

func (e *ErrDispatchConflict) Error() string {
	return fmt.Sprintf("notification already claimed: %s", e.NotificationID)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict indicates a resource already exists or is in a state
// that rejects the operation.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
