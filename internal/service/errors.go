package service

import "errors"

// Error taxonomy shared by every service. Handlers map these to HTTP statuses
// with errors.Is; anything else is treated as a persistence failure.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrQuotaExceeded   = errors.New("todo quota exceeded")
	ErrValidation      = errors.New("validation failed")
)
