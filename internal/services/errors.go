package services

import "errors"

// Operation outcomes handlers translate into HTTP statuses. Store failures
// are wrapped with context instead and reported as generic server errors.
var (
	// ErrValidation marks a rejected input; no I/O has been attempted.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced wishlist or item that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an operation on a wishlist the caller does not own.
	ErrForbidden = errors.New("forbidden")
)
