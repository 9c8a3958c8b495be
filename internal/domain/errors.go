package domain

import "errors"

// Sentinel errors shared across services. Repository and transport failures
// that do not match any of these are wrapped with %w and treated as retryable
// by the delivery layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrPaymentInFlight    = errors.New("payment already in progress")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
)
