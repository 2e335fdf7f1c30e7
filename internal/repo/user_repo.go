package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

// HashAPIKey returns the hex SHA-256 digest stored in users.api_key_hash.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}

// GetUser fetches a user by ID.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByAPIKey resolves the owner of a plaintext API key.
func GetUserByAPIKey(ctx context.Context, db *gorm.DB, key string) (*domain.User, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var u domain.User
	if err := db.WithContext(ctx).Where("api_key_hash = ?", HashAPIKey(key)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser inserts u or replaces its profile columns.
func UpsertUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "api_key_hash", "solved_count", "rating", "updated_at"}),
	}).Create(u).Error
}
