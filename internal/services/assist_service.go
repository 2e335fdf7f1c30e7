// Package services – AssistService
//
// This file implements the four assistance use-cases (code review, roadmap,
// hint, debug). Each runs the same strict sequence:
//
//	configured check -> presence validation -> entity lookup -> prompt
//	  -> one completion call -> extraction -> one interaction write
//
// A failure at any step aborts the request; nothing is retried here. A
// missing required problem fails before the completion service is called,
// so it costs nothing and writes nothing.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-codementor-backend/internal/domain"
	"github.com/tbourn/go-codementor-backend/internal/extract"
	"github.com/tbourn/go-codementor-backend/internal/llm"
	"github.com/tbourn/go-codementor-backend/internal/prompts"
	"github.com/tbourn/go-codementor-backend/internal/repo"
)

// AssistService coordinates prompt building, completion, extraction and
// recording for every assistance type.
type AssistService struct {
	DB  *gorm.DB
	LLM llm.Completer

	// Interactions records results; defaults to an InteractionService on DB.
	Interactions *InteractionService
}

// CodeReviewInput is a code review request.
type CodeReviewInput struct {
	Code      string
	Language  string
	ProblemID string
}

// CodeReviewResult is the raw review plus extracted fields.
type CodeReviewResult struct {
	InteractionID string
	Review        string
	Suggestions   []string
	Complexity    extract.Complexity
}

// RoadmapResult is the raw roadmap plus extracted fields.
type RoadmapResult struct {
	InteractionID     string
	Roadmap           string
	Phases            []string
	EstimatedDuration string
}

// HintInput is a hint request. CurrentCode and Language are optional.
type HintInput struct {
	ProblemID   string
	CurrentCode string
	Language    string
}

// HintResult is the raw hint plus extracted approach lines.
type HintResult struct {
	InteractionID string
	Hint          string
	Approach      []string
}

// DebugInput is a debugging request. ProblemID is optional.
type DebugInput struct {
	Code      string
	Language  string
	Error     string
	ProblemID string
}

// DebugResult is the raw explanation plus extracted fixes.
type DebugResult struct {
	InteractionID string
	Explanation   string
	Fixes         []string
}

// CodeReview reviews in.Code against the referenced problem.
func (s *AssistService) CodeReview(ctx context.Context, userID string, in CodeReviewInput) (*CodeReviewResult, error) {
	ctx, span := s.start(ctx, "CodeReview", userID)
	defer span.End()

	if err := s.Ready(); err != nil {
		return nil, err
	}
	if blank(in.Code) || blank(in.Language) || blank(in.ProblemID) {
		return nil, fmt.Errorf("%w: code, language and problemId are required", ErrInvalidInput)
	}

	p, err := s.problem(ctx, in.ProblemID)
	if err != nil {
		return nil, err
	}

	res, err := s.complete(ctx, prompts.CodeReview(*p, in.Code, in.Language))
	if err != nil {
		return nil, err
	}

	out := &CodeReviewResult{
		Review:      res.Content,
		Suggestions: extract.Suggestions(res.Content),
		Complexity:  extract.ComplexityOf(res.Content),
	}

	it, err := s.recorder().Record(ctx, userID, NewInteraction{
		Type:      domain.TypeCodeReview,
		ProblemID: &p.ID,
		Context: map[string]any{
			"problem":  p.ID,
			"code":     in.Code,
			"language": in.Language,
		},
		Query:          prompts.CodeReviewQuery(p.Title),
		Response:       res.Content,
		TokensUsed:     res.TotalTokens(),
		ResponseTimeMs: res.ResponseTimeMs(),
	})
	if err != nil {
		return nil, err
	}
	out.InteractionID = it.ID
	return out, nil
}

// Roadmap builds a learning path from in and the caller's progress.
func (s *AssistService) Roadmap(ctx context.Context, userID string, in prompts.RoadmapInput) (*RoadmapResult, error) {
	ctx, span := s.start(ctx, "Roadmap", userID)
	defer span.End()

	if err := s.Ready(); err != nil {
		return nil, err
	}
	if blank(in.CurrentLevel) {
		return nil, fmt.Errorf("%w: currentLevel is required", ErrInvalidInput)
	}

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res, err := s.complete(ctx, prompts.Roadmap(in, u.Stats()))
	if err != nil {
		return nil, err
	}

	out := &RoadmapResult{
		Roadmap:           res.Content,
		Phases:            extract.Phases(res.Content),
		EstimatedDuration: extract.Duration(res.Content),
	}

	it, err := s.recorder().Record(ctx, userID, NewInteraction{
		Type: domain.TypeRoadmap,
		Context: map[string]any{
			"goals":           nonNil(in.Goals),
			"currentLevel":    in.CurrentLevel,
			"timeCommitment":  in.TimeCommitment,
			"preferredTopics": nonNil(in.PreferredTopics),
		},
		Query:          prompts.RoadmapQuery(in.CurrentLevel),
		Response:       res.Content,
		TokensUsed:     res.TotalTokens(),
		ResponseTimeMs: res.ResponseTimeMs(),
	})
	if err != nil {
		return nil, err
	}
	out.InteractionID = it.ID
	return out, nil
}

// Hint produces a non-revealing hint for the referenced problem.
func (s *AssistService) Hint(ctx context.Context, userID string, in HintInput) (*HintResult, error) {
	ctx, span := s.start(ctx, "Hint", userID)
	defer span.End()

	if err := s.Ready(); err != nil {
		return nil, err
	}
	if blank(in.ProblemID) {
		return nil, fmt.Errorf("%w: problemId is required", ErrInvalidInput)
	}

	p, err := s.problem(ctx, in.ProblemID)
	if err != nil {
		return nil, err
	}

	res, err := s.complete(ctx, prompts.Hint(*p, in.CurrentCode, in.Language))
	if err != nil {
		return nil, err
	}

	out := &HintResult{
		Hint:     res.Content,
		Approach: extract.Approaches(res.Content),
	}

	it, err := s.recorder().Record(ctx, userID, NewInteraction{
		Type:      domain.TypeHint,
		ProblemID: &p.ID,
		Context: map[string]any{
			"problem":     p.ID,
			"currentCode": in.CurrentCode,
			"language":    in.Language,
		},
		Query:          prompts.HintQuery(p.Title),
		Response:       res.Content,
		TokensUsed:     res.TotalTokens(),
		ResponseTimeMs: res.ResponseTimeMs(),
	})
	if err != nil {
		return nil, err
	}
	out.InteractionID = it.ID
	return out, nil
}

// Debug explains an error. The problem is optional: an empty or unknown
// ProblemID simply omits the problem section from the prompt.
func (s *AssistService) Debug(ctx context.Context, userID string, in DebugInput) (*DebugResult, error) {
	ctx, span := s.start(ctx, "Debug", userID)
	defer span.End()

	if err := s.Ready(); err != nil {
		return nil, err
	}
	if blank(in.Code) || blank(in.Language) || blank(in.Error) {
		return nil, fmt.Errorf("%w: code, language and error are required", ErrInvalidInput)
	}

	var p *domain.Problem
	if !blank(in.ProblemID) {
		found, err := s.problem(ctx, in.ProblemID)
		switch {
		case err == nil:
			p = found
		case !errors.Is(err, ErrProblemNotFound):
			return nil, err
		}
	}

	res, err := s.complete(ctx, prompts.Debug(p, in.Code, in.Language, in.Error))
	if err != nil {
		return nil, err
	}

	out := &DebugResult{
		Explanation: res.Content,
		Fixes:       extract.Fixes(res.Content),
	}

	rec := NewInteraction{
		Type: domain.TypeDebugHelp,
		Context: map[string]any{
			"code":     in.Code,
			"language": in.Language,
			"error":    in.Error,
		},
		Query:          prompts.DebugQuery(in.Language),
		Response:       res.Content,
		TokensUsed:     res.TotalTokens(),
		ResponseTimeMs: res.ResponseTimeMs(),
	}
	if p != nil {
		rec.ProblemID = &p.ID
		rec.Context["problem"] = p.ID
	}

	it, err := s.recorder().Record(ctx, userID, rec)
	if err != nil {
		return nil, err
	}
	out.InteractionID = it.ID
	return out, nil
}

// --- helpers ---

func (s *AssistService) start(ctx context.Context, op, userID string) (context.Context, trace.Span) {
	return otel.Tracer("services/AssistService").Start(ctx, op,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
}

// Ready reports ErrServiceNotConfigured when no completion credential is
// present. It is the first check of every operation.
func (s *AssistService) Ready() error {
	if s.LLM == nil || !s.LLM.Configured() {
		return ErrServiceNotConfigured
	}
	return nil
}

func (s *AssistService) problem(ctx context.Context, id string) (*domain.Problem, error) {
	p, err := repo.GetProblem(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *AssistService) complete(ctx context.Context, prompt string) (*llm.Result, error) {
	res, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, ErrServiceNotConfigured
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return res, nil
}

func (s *AssistService) recorder() *InteractionService {
	if s.Interactions != nil {
		return s.Interactions
	}
	return &InteractionService{DB: s.DB}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
