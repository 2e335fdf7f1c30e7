// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// InteractionsStats returns the number of userID's interactions (optionally
// of one kind) and the greatest UpdatedAt among them. Feedback bumps
// UpdatedAt, so the pair changes whenever a history page could change.
//
// When there are no rows, count is 0 and maxUpdatedAt is nil.
func InteractionsStats(ctx context.Context, db *gorm.DB, userID, kind string) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = interactionScope(ctx, db, userID, kind).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = interactionScope(ctx, db, userID, kind).
		Select("updated_at").Order("updated_at DESC").Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
