package repo

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

// Seed is the on-disk fixture format for users and problems.
//
//	users:
//	  - id: u1
//	    username: alice
//	    api_key: dev-key
//	    solved_count: 12
//	    rating: 1480
//	problems:
//	  - id: two-sum
//	    title: Two Sum
//	    difficulty: easy
//	    description: "<p>Given an array...</p>"
type Seed struct {
	Users    []SeedUser    `yaml:"users"`
	Problems []SeedProblem `yaml:"problems"`
}

// SeedUser is a user fixture. APIKey is hashed before storage.
type SeedUser struct {
	ID          string  `yaml:"id"`
	Username    string  `yaml:"username"`
	APIKey      string  `yaml:"api_key"`
	SolvedCount int     `yaml:"solved_count"`
	Rating      float64 `yaml:"rating"`
}

// SeedProblem is a problem fixture.
type SeedProblem struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, u := range s.Users {
		if u.ID == "" || u.Username == "" {
			return nil, fmt.Errorf("users[%d]: id and username are required", i)
		}
	}
	for i, p := range s.Problems {
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("problems[%d]: id and title are required", i)
		}
	}
	return &s, nil
}

// ApplySeed upserts every fixture in one transaction.
func ApplySeed(ctx context.Context, db *gorm.DB, s *Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, su := range s.Users {
			u := &domain.User{
				ID:          su.ID,
				Username:    su.Username,
				SolvedCount: su.SolvedCount,
				Rating:      su.Rating,
			}
			if su.APIKey != "" {
				u.APIKeyHash = HashAPIKey(su.APIKey)
			}
			if err := UpsertUser(ctx, tx, u); err != nil {
				return fmt.Errorf("upsert user %s: %w", su.ID, err)
			}
		}
		for _, sp := range s.Problems {
			p := &domain.Problem{
				ID:          sp.ID,
				Title:       sp.Title,
				Description: sp.Description,
				Difficulty:  sp.Difficulty,
			}
			if p.Difficulty == "" {
				p.Difficulty = "medium"
			}
			if err := UpsertProblem(ctx, tx, p); err != nil {
				return fmt.Errorf("upsert problem %s: %w", sp.ID, err)
			}
		}
		return nil
	})
}
