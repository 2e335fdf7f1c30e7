// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, domain codes
// name the failing stage of an assistance request.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "upstream_failed",
//	  "message": "failed to generate response"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-codementor-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeNotConfigured  = "not_configured"
	ErrCodeUpstreamFailed = "upstream_failed"
	ErrCodePersistFailed  = "persist_failed"
	ErrCodeListFailed     = "list_failed"
)

// failService maps a service error onto the response envelope. The caller
// sees a generic message; the underlying error is only logged.
//
//	ErrInvalidInput         → 400 bad_request (message names the fields)
//	ErrProblemNotFound      → 404 not_found
//	ErrUserNotFound         → 404 not_found
//	ErrInteractionNotFound  → 404 not_found
//	ErrForbiddenFeedback    → 403 forbidden
//	ErrServiceNotConfigured → 500 not_configured
//	ErrUpstream             → 500 upstream_failed
//	ErrPersistence          → 500 persist_failed
//	anything else           → 500 internal_error
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrProblemNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Problem not found")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
	case errors.Is(err, services.ErrInteractionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Interaction not found")
	case errors.Is(err, services.ErrForbiddenFeedback):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "Unauthorized")
	case errors.Is(err, services.ErrServiceNotConfigured):
		failCause(c, http.StatusInternalServerError, ErrCodeNotConfigured, "AI service not configured", err)
	case errors.Is(err, services.ErrUpstream):
		failCause(c, http.StatusInternalServerError, ErrCodeUpstreamFailed, "Failed to generate response", err)
	case errors.Is(err, services.ErrPersistence):
		failCause(c, http.StatusInternalServerError, ErrCodePersistFailed, "Failed to save interaction", err)
	default:
		failCause(c, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}
