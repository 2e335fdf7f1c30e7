// History HTTP handler.
//
//   - GET /history  (paginated, optional type filter, ETag support)
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-codementor-backend/internal/services"
	"github.com/tbourn/go-codementor-backend/internal/utils"
)

// ProblemSummaryDTO is the problem inlined into a history item.
type ProblemSummaryDTO struct {
	Title      string `json:"title" example:"Two Sum"`
	Difficulty string `json:"difficulty" example:"easy"`
}

// FeedbackDTO is the feedback last attached to an interaction.
type FeedbackDTO struct {
	Helpful     *bool     `json:"helpful,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Comment     *string   `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// InteractionDTO is one history item.
type InteractionDTO struct {
	ID             string             `json:"id"`
	Type           string             `json:"type" example:"code_review"`
	ProblemID      *string            `json:"problemId"`
	Problem        *ProblemSummaryDTO `json:"problem"`
	Context        map[string]any     `json:"context"`
	Query          string             `json:"query" example:"Code review for: Two Sum"`
	Response       string             `json:"response"`
	TokensUsed     int                `json:"tokensUsed"`
	ResponseTimeMs int64              `json:"responseTimeMs"`
	Feedback       *FeedbackDTO       `json:"feedback,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// HistoryResponse is one page of the caller's history.
type HistoryResponse struct {
	Interactions []InteractionDTO `json:"interactions"`
	TotalPages   int              `json:"totalPages"`
	CurrentPage  int              `json:"currentPage"`
	Total        int64            `json:"total"`
}

// historyQuery parses page, limit and type. Unparsable numbers fall back to
// the defaults; limit is capped at 100.
func historyQuery(c *gin.Context) (page, limit int, kind string) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit = utils.Clamp(utils.AtoiDefault(c.Query("limit"), defaultLimit), defaultLimit, 1, maxLimit)
	kind = strings.TrimSpace(c.Query("type"))
	return
}

// History godoc
// @ID          history
// @Summary     List the caller's interactions (paginated)
// @Description Returns the caller's interactions newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        History
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       limit          query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Param       type           query   string  false "Assistance type" Enums(code_review, roadmap, hint, debug_help)
//
// @Success     200  {object} handlers.HistoryResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /history [get]
func (h *Handlers) History(c *gin.Context) {
	uid, authed := caller(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()
	page, limit, kind := historyQuery(c)

	// ETag pre-check (best effort).
	if v, err := h.itSvc.HistoryVersion(ctx, uid, kind); err == nil {
		etag := fmt.Sprintf(`W/"history:%s:%s:%d:%d:%s"`, uid, kind, page, limit, v)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	hp, err := h.itSvc.ListHistory(ctx, uid, page, limit, kind)
	if err != nil {
		failCause(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch history", err)
		return
	}

	resp := HistoryResponse{
		Interactions: make([]InteractionDTO, 0, len(hp.Items)),
		TotalPages:   hp.TotalPages,
		CurrentPage:  hp.Page,
		Total:        hp.Total,
	}
	for _, it := range hp.Items {
		resp.Interactions = append(resp.Interactions, toInteractionDTO(it))
	}
	ok(c, http.StatusOK, resp)
}

func toInteractionDTO(it services.HistoryItem) InteractionDTO {
	out := InteractionDTO{
		ID:             it.ID,
		Type:           string(it.Type),
		ProblemID:      it.ProblemID,
		Context:        map[string]any(it.Context),
		Query:          it.Query,
		Response:       it.Response,
		TokensUsed:     it.TokensUsed,
		ResponseTimeMs: it.ResponseTimeMs,
		CreatedAt:      it.CreatedAt,
	}
	if out.Context == nil {
		out.Context = map[string]any{}
	}
	if it.Problem != nil {
		out.Problem = &ProblemSummaryDTO{Title: it.Problem.Title, Difficulty: it.Problem.Difficulty}
	}
	if it.HasFeedback() {
		out.Feedback = &FeedbackDTO{
			Helpful:     it.FeedbackHelpful,
			Rating:      it.FeedbackRating,
			Comment:     it.FeedbackComment,
			SubmittedAt: *it.FeedbackAt,
		}
	}
	return out
}
