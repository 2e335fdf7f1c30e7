// Feedback HTTP handler.
//
//   - POST /feedback/{interactionId}  (attach or overwrite feedback)
//
// Feedback is replaced as a whole on every submission: fields omitted from
// the body clear what was stored before.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-codementor-backend/internal/services"
)

// FeedbackRequest is the JSON payload for feedback on an interaction.
type FeedbackRequest struct {
	Helpful *bool    `json:"helpful" example:"true"`
	Rating  *float64 `json:"rating" example:"4.5"`
	Comment *string  `json:"comment" example:"Spotted my off-by-one"`
}

// SubmitFeedback godoc
// @ID          submitFeedback
// @Summary     Leave feedback on an interaction
// @Description Overwrites the feedback on one of the caller's interactions.
// @Tags        Feedback
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       interactionId  path  string                    true  "Interaction ID (UUID)"
// @Param       body           body  handlers.FeedbackRequest  true  "Feedback payload"
//
// @Success     200  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object} handlers.ErrorResponse "Not the interaction owner"
// @Failure     404  {object} handlers.ErrorResponse "Interaction not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /feedback/{interactionId} [post]
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	uid, authed := caller(c)
	if !authed {
		return
	}
	var req FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.itSvc.AttachFeedback(c.Request.Context(), uid, c.Param("interactionId"), services.FeedbackInput{
		Helpful: req.Helpful,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Feedback submitted successfully"})
}
