package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSummaryUnavailable means the review was stored but the attraction summary was not refreshed.
	ErrSummaryUnavailable = errors.New("review summary unavailable")
)
