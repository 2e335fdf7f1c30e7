package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

// GetProblem fetches a problem by ID.
func GetProblem(ctx context.Context, db *gorm.DB, id string) (*domain.Problem, error) {
	var p domain.Problem
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProblemsByID loads the problems among ids that still exist, keyed by ID.
// Missing IDs are simply absent from the map.
func ProblemsByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Problem, error) {
	out := make(map[string]domain.Problem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Problem
	if err := db.WithContext(ctx).
		Select("id", "title", "difficulty").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// UpsertProblem inserts p or replaces its mutable columns.
func UpsertProblem(ctx context.Context, db *gorm.DB, p *domain.Problem) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "difficulty", "updated_at"}),
	}).Create(p).Error
}
