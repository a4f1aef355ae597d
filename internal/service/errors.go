package service

import "errors"

var (
	// ErrInvalidInput wraps validation failures on caller supplied values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotConfigured is returned when an optional integration has no credentials.
	ErrNotConfigured = errors.New("integration not configured")
)
