// Package domain defines the persistence models for users, practice problems,
// and AI assistance interactions. These types are mapped with GORM and form
// the core data layer of the mentoring backend.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssistanceType discriminates the four kinds of AI assistance.
type AssistanceType string

const (
	TypeCodeReview AssistanceType = "code_review"
	TypeRoadmap    AssistanceType = "roadmap"
	TypeHint       AssistanceType = "hint"
	TypeDebugHelp  AssistanceType = "debug_help"
)

// Valid reports whether t is one of the known assistance kinds.
func (t AssistanceType) Valid() bool {
	switch t {
	case TypeCodeReview, TypeRoadmap, TypeHint, TypeDebugHelp:
		return true
	}
	return false
}

// User is a platform account. Only the fields the assistance endpoints read
// are modelled here; the profile is never modified by them.
//
// Fields:
//   - ID: stable identifier (varchar(64)).
//   - Username: unique display handle.
//   - APIKeyHash: hex SHA-256 of the caller's API key (never the key itself).
//   - SolvedCount / Rating: progress signals interpolated into roadmaps.
type User struct {
	ID          string         `json:"id"           gorm:"type:varchar(64);primaryKey"`
	Username    string         `json:"username"     gorm:"type:varchar(64);not null;uniqueIndex"`
	APIKeyHash  string         `json:"-"            gorm:"type:char(64);index"`
	SolvedCount int            `json:"solved_count" gorm:"not null;default:0"`
	Rating      float64        `json:"rating"       gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Stats returns the progress signals used by roadmap prompts.
func (u User) Stats() UserStats {
	return UserStats{SolvedCount: u.SolvedCount, Rating: u.Rating}
}

// UserStats is the read-only projection of a user's progress.
type UserStats struct {
	SolvedCount int
	Rating      float64
}

// Problem is a practice problem. Description holds rich text (HTML).
type Problem struct {
	ID          string         `json:"id"          gorm:"type:varchar(64);primaryKey"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text;not null;default:''"`
	Difficulty  string         `json:"difficulty"  gorm:"type:varchar(16);not null;default:'medium'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Problem.
func (Problem) TableName() string { return "problems" }

// Interaction records one assistance request/response cycle.
//
// Everything except the Feedback* columns is written once at creation.
// ProblemID is a soft reference: the problem may later disappear and reads
// tolerate that, so no foreign key is declared for it.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner, always the authenticated caller (indexed with CreatedAt).
//   - Type: assistance kind.
//   - ProblemID: referenced problem, nil for roadmaps and problem-less debugs.
//   - Context: type-shaped JSON bag of the inputs that produced the reply.
//   - Query: short human-readable label (not the prompt).
//   - Response: raw completion text.
//   - TokensUsed: total tokens, 0 when the completion service omitted usage.
//   - ResponseTimeMs: caller-measured completion latency.
//   - Feedback*: optional, overwritten on each submission.
type Interaction struct {
	ID             string            `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID         string            `json:"user_id"          gorm:"type:varchar(64);not null;index:idx_user_interactions,priority:1"`
	Type           AssistanceType    `json:"type"             gorm:"type:varchar(16);not null;index"`
	ProblemID      *string           `json:"problem_id"       gorm:"type:varchar(64);index"`
	Context        datatypes.JSONMap `json:"context"`
	Query          string            `json:"query"            gorm:"type:varchar(255);not null;default:''"`
	Response       string            `json:"response"         gorm:"type:text;not null"`
	TokensUsed     int               `json:"tokens_used"      gorm:"not null;default:0"`
	ResponseTimeMs int64             `json:"response_time_ms" gorm:"not null;default:0"`

	FeedbackHelpful *bool      `json:"feedback_helpful,omitempty"`
	FeedbackRating  *float64   `json:"feedback_rating,omitempty"`
	FeedbackComment *string    `json:"feedback_comment,omitempty" gorm:"type:text"`
	FeedbackAt      *time.Time `json:"feedback_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_interactions,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owner. Interactions are cascade-deleted with their user.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Interaction.
func (Interaction) TableName() string { return "interactions" }

// HasFeedback reports whether any feedback has been attached.
func (i Interaction) HasFeedback() bool { return i.FeedbackAt != nil }
