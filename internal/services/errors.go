// Package services defines the business logic for AI assistance requests and
// their recorded interactions. This file centralizes service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrServiceNotConfigured is returned before any other work when the
	// completion service has no credential.
	ErrServiceNotConfigured = errors.New("AI service not configured")

	// ErrInvalidInput is returned when a required request field is missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProblemNotFound indicates that a referenced problem does not exist.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrUserNotFound indicates that the caller's profile could not be loaded.
	ErrUserNotFound = errors.New("user not found")

	// ErrInteractionNotFound indicates that the interaction does not exist.
	ErrInteractionNotFound = errors.New("interaction not found")

	// ErrForbiddenFeedback is returned when a user attempts to leave feedback
	// on an interaction they do not own.
	ErrForbiddenFeedback = errors.New("cannot leave feedback on this interaction")

	// ErrUpstream wraps a failed completion call.
	ErrUpstream = errors.New("completion request failed")

	// ErrPersistence wraps a failed write of an interaction.
	ErrPersistence = errors.New("failed to persist interaction")
)
