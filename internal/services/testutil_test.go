package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-codementor-backend/internal/domain"
	"github.com/tbourn/go-codementor-backend/internal/llm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Problem{}, &domain.Interaction{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string, solved int, rating float64) {
	t.Helper()
	if err := db.Create(&domain.User{ID: id, Username: "user-" + id, SolvedCount: solved, Rating: rating}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedProblem(t *testing.T, db *gorm.DB, id, title string) {
	t.Helper()
	p := &domain.Problem{ID: id, Title: title, Description: "<p>Find <b>two</b> numbers</p>", Difficulty: "easy"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed problem: %v", err)
	}
}

func countInteractions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.Interaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count interactions: %v", err)
	}
	return n
}

// stubLLM is a hand-written Completer that records prompts.
type stubLLM struct {
	mu         sync.Mutex
	configured bool
	content    string
	usage      *llm.Usage
	err        error
	prompts    []string
}

func newStubLLM(content string) *stubLLM {
	return &stubLLM{configured: true, content: content}
}

func (s *stubLLM) Configured() bool { return s.configured }

func (s *stubLLM) Complete(_ context.Context, prompt string) (*llm.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Result{Content: s.content, Usage: s.usage, ResponseTime: 120 * time.Millisecond}, nil
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
