// Assistance HTTP handlers.
//
// This file exposes the four generation endpoints:
//   - POST /code-review
//   - POST /roadmap
//   - POST /hint
//   - POST /debug
//
// Each returns the raw completion text, best-effort structured fields, and
// the ID of the recorded interaction (used for feedback).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-codementor-backend/internal/extract"
	"github.com/tbourn/go-codementor-backend/internal/prompts"
	"github.com/tbourn/go-codementor-backend/internal/services"
)

//
// DTOs
//

// CodeReviewRequest is the JSON payload for a code review.
type CodeReviewRequest struct {
	Code      string `json:"code" example:"func twoSum(nums []int, target int) []int { return nil }"`
	Language  string `json:"language" example:"go"`
	ProblemID string `json:"problemId" example:"two-sum"`
}

// CodeReviewResponse is the review plus extracted suggestions and complexity.
type CodeReviewResponse struct {
	InteractionID string             `json:"interactionId" example:"5f0c1a52-8d4e-4a5b-9b9e-2f6d7c3e1a10"`
	Review        string             `json:"review"`
	Suggestions   []string           `json:"suggestions"`
	Complexity    extract.Complexity `json:"complexity"`
}

// RoadmapRequest is the JSON payload for a learning roadmap.
type RoadmapRequest struct {
	Goals           []string `json:"goals" example:"pass FAANG interviews"`
	CurrentLevel    string   `json:"currentLevel" example:"beginner"`
	TimeCommitment  string   `json:"timeCommitment" example:"5 hours/week"`
	PreferredTopics []string `json:"preferredTopics" example:"graphs"`
}

// RoadmapResponse is the roadmap plus extracted phases and duration.
type RoadmapResponse struct {
	InteractionID     string   `json:"interactionId"`
	Roadmap           string   `json:"roadmap"`
	Phases            []string `json:"phases"`
	EstimatedDuration string   `json:"estimatedDuration" example:"8 weeks"`
}

// HintRequest is the JSON payload for a hint. CurrentCode and Language are optional.
type HintRequest struct {
	ProblemID   string `json:"problemId" example:"two-sum"`
	CurrentCode string `json:"currentCode,omitempty"`
	Language    string `json:"language,omitempty" example:"python"`
}

// HintResponse is the hint plus extracted approach lines.
type HintResponse struct {
	InteractionID string   `json:"interactionId"`
	Hint          string   `json:"hint"`
	Approach      []string `json:"approach"`
}

// DebugRequest is the JSON payload for debugging help. ProblemID is optional.
type DebugRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language" example:"go"`
	Error     string `json:"error" example:"index out of range [3] with length 3"`
	ProblemID string `json:"problemId,omitempty"`
}

// DebugResponse is the explanation plus extracted fixes.
type DebugResponse struct {
	InteractionID string   `json:"interactionId"`
	Explanation   string   `json:"explanation"`
	Fixes         []string `json:"fixes"`
}

//
// Handlers
//

// CodeReview godoc
// @ID          codeReview
// @Summary     Review code against a problem
// @Description Asks the completion service to review the submitted code for the referenced problem.
// @Tags        Assistance
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.CodeReviewRequest  true  "Code review payload"
//
// @Success     200  {object}  handlers.CodeReviewResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Problem not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Not configured, upstream or persistence failure"
// @Router      /code-review [post]
func (h *Handlers) CodeReview(c *gin.Context) {
	var req CodeReviewRequest
	uid, proceed := h.beginAssist(c, &req)
	if !proceed {
		return
	}

	res, err := h.assistSvc.CodeReview(c.Request.Context(), uid, services.CodeReviewInput{
		Code:      req.Code,
		Language:  req.Language,
		ProblemID: req.ProblemID,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, CodeReviewResponse{
		InteractionID: res.InteractionID,
		Review:        res.Review,
		Suggestions:   res.Suggestions,
		Complexity:    res.Complexity,
	})
}

// Roadmap godoc
// @ID          roadmap
// @Summary     Generate a learning roadmap
// @Description Builds a personalized roadmap from the caller's goals and progress.
// @Tags        Assistance
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.RoadmapRequest  true  "Roadmap preferences"
//
// @Success     200  {object}  handlers.RoadmapResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Not configured, upstream or persistence failure"
// @Router      /roadmap [post]
func (h *Handlers) Roadmap(c *gin.Context) {
	var req RoadmapRequest
	uid, proceed := h.beginAssist(c, &req)
	if !proceed {
		return
	}

	res, err := h.assistSvc.Roadmap(c.Request.Context(), uid, prompts.RoadmapInput{
		Goals:           req.Goals,
		CurrentLevel:    req.CurrentLevel,
		TimeCommitment:  req.TimeCommitment,
		PreferredTopics: req.PreferredTopics,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, RoadmapResponse{
		InteractionID:     res.InteractionID,
		Roadmap:           res.Roadmap,
		Phases:            res.Phases,
		EstimatedDuration: res.EstimatedDuration,
	})
}

// Hint godoc
// @ID          hint
// @Summary     Get a hint for a problem
// @Description Returns a nudge toward a solution without revealing it.
// @Tags        Assistance
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.HintRequest  true  "Hint payload"
//
// @Success     200  {object}  handlers.HintResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Problem not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Not configured, upstream or persistence failure"
// @Router      /hint [post]
func (h *Handlers) Hint(c *gin.Context) {
	var req HintRequest
	uid, proceed := h.beginAssist(c, &req)
	if !proceed {
		return
	}

	res, err := h.assistSvc.Hint(c.Request.Context(), uid, services.HintInput{
		ProblemID:   req.ProblemID,
		CurrentCode: req.CurrentCode,
		Language:    req.Language,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, HintResponse{
		InteractionID: res.InteractionID,
		Hint:          res.Hint,
		Approach:      res.Approach,
	})
}

// Debug godoc
// @ID          debug
// @Summary     Explain an error and suggest fixes
// @Description Explains the reported error in the submitted code. A problem reference is optional.
// @Tags        Assistance
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.DebugRequest  true  "Debug payload"
//
// @Success     200  {object}  handlers.DebugResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Not configured, upstream or persistence failure"
// @Router      /debug [post]
func (h *Handlers) Debug(c *gin.Context) {
	var req DebugRequest
	uid, proceed := h.beginAssist(c, &req)
	if !proceed {
		return
	}

	res, err := h.assistSvc.Debug(c.Request.Context(), uid, services.DebugInput{
		Code:      req.Code,
		Language:  req.Language,
		Error:     req.Error,
		ProblemID: req.ProblemID,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, DebugResponse{
		InteractionID: res.InteractionID,
		Explanation:   res.Explanation,
		Fixes:         res.Fixes,
	})
}
