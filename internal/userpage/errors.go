package userpage

import (
	"errors"
	"fmt"
)

// Causes that end an activation in the Redirecting phase.
var (
	// ErrAuthFailure means the session lookup failed or returned no identity.
	ErrAuthFailure = errors.New("userpage: session lookup failed")

	// ErrAccessDenied means the visitor asked for somebody else's page.
	ErrAccessDenied = errors.New("userpage: profile does not belong to visitor")

	// ErrNotFound means the profile source has no record for the id.
	ErrNotFound = errors.New("userpage: profile not found")

	// ErrFetchFailure means the profile source failed.
	ErrFetchFailure = errors.New("userpage: profile fetch failed")
)

// Contract violations on synchronous operations.
var (
	// ErrOutOfRange is returned for a photo index outside [0, len(photos)).
	ErrOutOfRange = errors.New("userpage: photo index out of range")

	// ErrInvalidState is returned when an operation is not allowed in the
	// current phase, or a comment is appended with no selected photo.
	ErrInvalidState = errors.New("userpage: invalid state")

	// ErrSelectionMoved is returned by AppendComment when the current photo
	// is no longer the one the comment was stored for. It matches
	// ErrInvalidState.
	ErrSelectionMoved = fmt.Errorf("%w: selection moved", ErrInvalidState)
)

// Lifecycle errors.
var (
	ErrAlreadyActivated = errors.New("userpage: controller already activated")
	ErrDeactivated      = errors.New("userpage: controller deactivated")
)

// causeLabel maps a redirect cause to a short metrics/log label.
func causeLabel(err error) string {
	switch {
	case errors.Is(err, ErrAuthFailure):
		return "auth_failure"
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFetchFailure):
		return "fetch_failure"
	default:
		return "unknown"
	}
}
