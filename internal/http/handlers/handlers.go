// Package handlers exposes the AI assistance REST endpoints.
//
// Handlers are transport-thin: they bind JSON, call application services,
// and translate results and service errors into HTTP responses. Every route
// runs behind API-key authentication, so the caller identity is always taken
// from the Gin context and never from the request body.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-codementor-backend/internal/prompts"
	"github.com/tbourn/go-codementor-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AssistService generates the four kinds of assistance. Each call performs
// one completion and records one interaction owned by userID.
type AssistService interface {
	// Ready fails with services.ErrServiceNotConfigured when no completion
	// credential is present.
	Ready() error
	CodeReview(ctx context.Context, userID string, in services.CodeReviewInput) (*services.CodeReviewResult, error)
	Roadmap(ctx context.Context, userID string, in prompts.RoadmapInput) (*services.RoadmapResult, error)
	Hint(ctx context.Context, userID string, in services.HintInput) (*services.HintResult, error)
	Debug(ctx context.Context, userID string, in services.DebugInput) (*services.DebugResult, error)
}

// InteractionService reads history and attaches feedback.
type InteractionService interface {
	// ListHistory returns a page of userID's interactions, newest first.
	ListHistory(ctx context.Context, userID string, page, pageSize int, kind string) (*services.HistoryPage, error)
	// HistoryVersion returns a token that changes with the history contents.
	HistoryVersion(ctx context.Context, userID, kind string) (string, error)
	// AttachFeedback overwrites the feedback on an interaction owned by userID.
	AttachFeedback(ctx context.Context, userID, interactionID string, in services.FeedbackInput) error
}

//
// Handler wiring
//

// Handlers groups the assistance, history and feedback endpoints.
type Handlers struct {
	assistSvc AssistService
	itSvc     InteractionService
}

// New constructs a Handlers instance bound to the given services.
func New(assistSvc AssistService, itSvc InteractionService) *Handlers {
	return &Handlers{assistSvc: assistSvc, itSvc: itSvc}
}

// caller returns the authenticated user ID. When auth middleware did not run
// it aborts with 401 and reports false.
func caller(c *gin.Context) (string, bool) {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	return "", false
}

// beginAssist runs the checks shared by the generation endpoints in order:
// caller identity, service configuration, then JSON binding into dst.
func (h *Handlers) beginAssist(c *gin.Context, dst any) (string, bool) {
	uid, authed := caller(c)
	if !authed {
		return "", false
	}
	if err := h.assistSvc.Ready(); err != nil {
		failService(c, err)
		return "", false
	}
	if !bindJSON(c, dst) {
		return "", false
	}
	return uid, true
}

// bindJSON decodes the body into dst, aborting with 400 on malformed JSON.
// Field presence is validated by the services.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}
