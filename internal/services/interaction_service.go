// Package services – InteractionService
//
// This file implements the interaction recorder: persisting one record per
// assistance request, attaching (overwriting) feedback, and paginated
// history with an inlined problem summary.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-codementor-backend/internal/domain"
	"github.com/tbourn/go-codementor-backend/internal/repo"
	"github.com/tbourn/go-codementor-backend/internal/utils"
)

const defaultHistoryPageSize = 20

// InteractionService records and reads assistance interactions.
type InteractionService struct {
	DB *gorm.DB
}

// NewInteraction is the immutable part of an interaction. The owner is
// passed separately and always comes from the authenticated caller.
type NewInteraction struct {
	Type           domain.AssistanceType
	ProblemID      *string
	Context        map[string]any
	Query          string
	Response       string
	TokensUsed     int
	ResponseTimeMs int64
}

// FeedbackInput is the caller's feedback. Absent fields clear the stored
// value since feedback is replaced as a whole.
type FeedbackInput struct {
	Helpful *bool
	Rating  *float64
	Comment *string
}

// ProblemSummary is the read-time join of an interaction's problem.
type ProblemSummary struct {
	Title      string
	Difficulty string
}

// HistoryItem is an interaction plus its problem summary (nil when the
// interaction has no problem or the problem no longer exists).
type HistoryItem struct {
	domain.Interaction
	Problem *ProblemSummary
}

// HistoryPage is one page of a user's history.
type HistoryPage struct {
	Items      []HistoryItem
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Record persists a new interaction owned by userID. An unknown type is
// ErrInvalidInput; write failures are wrapped in ErrPersistence.
func (s *InteractionService) Record(ctx context.Context, userID string, in NewInteraction) (*domain.Interaction, error) {
	tr := otel.Tracer("services/InteractionService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("interaction.type", string(in.Type)),
		),
	)
	defer span.End()

	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown interaction type %q", ErrInvalidInput, in.Type)
	}

	it := &domain.Interaction{
		UserID:         userID,
		Type:           in.Type,
		ProblemID:      in.ProblemID,
		Context:        datatypes.JSONMap(in.Context),
		Query:          in.Query,
		Response:       in.Response,
		TokensUsed:     in.TokensUsed,
		ResponseTimeMs: in.ResponseTimeMs,
	}
	if err := repo.CreateInteraction(ctx, s.DB, it); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	span.SetAttributes(attribute.String("interaction.id", it.ID))
	return it, nil
}

// AttachFeedback overwrites the feedback of interactionID on behalf of
// userID. The ownership check and the update run in one transaction; a
// non-owner gets ErrForbiddenFeedback and nothing is written.
func (s *InteractionService) AttachFeedback(ctx context.Context, userID, interactionID string, in FeedbackInput) error {
	tr := otel.Tracer("services/InteractionService")
	ctx, span := tr.Start(ctx, "AttachFeedback",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("interaction.id", interactionID),
		),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := repo.GetInteraction(ctx, tx, interactionID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInteractionNotFound
			}
			return err
		}
		if it.UserID != userID {
			return ErrForbiddenFeedback
		}

		err = repo.UpdateInteractionFeedback(ctx, tx, interactionID, repo.FeedbackUpdate{
			Helpful: in.Helpful,
			Rating:  in.Rating,
			Comment: in.Comment,
			At:      time.Now().UTC(),
		})
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInteractionNotFound
		}
		return err
	})
}

// ListHistory returns userID's interactions newest first, optionally
// filtered by kind. page < 1 becomes 1 and pageSize <= 0 becomes 20.
func (s *InteractionService) ListHistory(ctx context.Context, userID string, page, pageSize int, kind string) (*HistoryPage, error) {
	tr := otel.Tracer("services/InteractionService")
	ctx, span := tr.Start(ctx, "ListHistory",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
			attribute.String("interaction.type", kind),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultHistoryPageSize
	}
	offset := utils.Offset(page, pageSize)

	out := &HistoryPage{Items: []HistoryItem{}, Page: page, PageSize: pageSize}

	total, err := repo.CountInteractions(ctx, s.DB, userID, kind)
	if err != nil {
		return nil, err
	}
	out.Total = total
	out.TotalPages = utils.TotalPages(total, pageSize)
	if total == 0 || page > out.TotalPages {
		return out, nil
	}

	rows, err := repo.ListInteractionsPage(ctx, s.DB, userID, kind, offset, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, it := range rows {
		if it.ProblemID != nil && *it.ProblemID != "" {
			ids = append(ids, *it.ProblemID)
		}
	}
	problems, err := repo.ProblemsByID(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	for _, it := range rows {
		item := HistoryItem{Interaction: it}
		if it.ProblemID != nil {
			if p, ok := problems[*it.ProblemID]; ok {
				item.Problem = &ProblemSummary{Title: p.Title, Difficulty: p.Difficulty}
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// HistoryVersion returns a token that changes whenever any page of userID's
// history (for kind) could change: the row count plus the newest UpdatedAt
// in Unix nanoseconds (0 when empty).
func (s *InteractionService) HistoryVersion(ctx context.Context, userID, kind string) (string, error) {
	count, maxTS, err := repo.InteractionsStats(ctx, s.DB, userID, kind)
	if err != nil {
		return "", err
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	return fmt.Sprintf("%d:%d", count, ts), nil
}
