package domain

import "errors"

// Sentinel errors shared across the repository, engine and API layers.
// Callers match them with errors.Is after unwrapping.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord marks structurally impossible input data, such
	// as a negative payment amount or a filing dated before the
	// taxpayer's registration. Malformed data aborts the whole run; a
	// partial scoring over corrupt input would be worse than none.
	ErrMalformedRecord = errors.New("malformed input record")

	// ErrRunAborted is returned when an engine run fails before its
	// results were persisted.
	ErrRunAborted = errors.New("engine run aborted")

	// ErrInvalidTransition is returned for illegal alert status changes.
	ErrInvalidTransition = errors.New("invalid alert status transition")
)
