// Package apperr defines the error kinds surfaced across service boundaries.
// Services wrap these sentinels with context via fmt.Errorf and %w; handlers
// map them to HTTP statuses with errors.Is.
package apperr

import "errors"

var (
	// ErrUnauthorized covers both a missing session and an insufficient role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means no entity exists for the given id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed enums, missing required fields and
	// password mismatches.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict covers duplicate unique keys and operations rejected by an
	// entity's current state.
	ErrConflict = errors.New("conflict")

	// ErrStorageFailure means the record or blob store is unavailable.
	ErrStorageFailure = errors.New("storage failure")

	// ErrStorageExhausted is reported separately from ErrStorageFailure so
	// operators can tell capacity problems from outages.
	ErrStorageExhausted = errors.New("storage exhausted")

	// ErrPayloadTooLarge means an upload exceeded the configured cap.
	ErrPayloadTooLarge = errors.New("payload too large")
)
