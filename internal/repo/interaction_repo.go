// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Interaction model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they work
// inside transactions. Only the feedback columns are ever updated after
// creation.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (gorm.ErrRecordNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

// CreateInteraction inserts it, assigning a UUID and UTC CreatedAt when
// unset.
func CreateInteraction(ctx context.Context, db *gorm.DB, it *domain.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("User").Create(it).Error
}

// GetInteraction fetches a single interaction by ID regardless of owner.
func GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.Interaction, error) {
	var it domain.Interaction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// FeedbackUpdate carries the overwriteable feedback columns. Nil pointers
// clear the column, matching last-write-wins replacement.
type FeedbackUpdate struct {
	Helpful *bool
	Rating  *float64
	Comment *string
	At      time.Time
}

// UpdateInteractionFeedback overwrites the feedback columns of id.
// It returns ErrNotFound when no row matched.
func UpdateInteractionFeedback(ctx context.Context, db *gorm.DB, id string, fb FeedbackUpdate) error {
	res := db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"feedback_helpful": fb.Helpful,
			"feedback_rating":  fb.Rating,
			"feedback_comment": fb.Comment,
			"feedback_at":      fb.At,
			"updated_at":       fb.At,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// interactionScope filters by owner and, when kind is non-empty, by type.
func interactionScope(ctx context.Context, db *gorm.DB, userID, kind string) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Interaction{}).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("type = ?", kind)
	}
	return q
}

// CountInteractions returns how many interactions userID owns, optionally
// restricted to kind.
func CountInteractions(ctx context.Context, db *gorm.DB, userID, kind string) (int64, error) {
	var total int64
	err := interactionScope(ctx, db, userID, kind).Count(&total).Error
	return total, err
}

// ListInteractionsPage returns a page of userID's interactions, newest first.
// Ties on created_at are broken by id so pages never overlap.
func ListInteractionsPage(ctx context.Context, db *gorm.DB, userID, kind string, offset, limit int) ([]domain.Interaction, error) {
	var out []domain.Interaction
	err := interactionScope(ctx, db, userID, kind).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
