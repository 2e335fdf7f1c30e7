package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-codementor-backend/internal/domain"
)

func TestCreateInteraction_Error_NoTable(t *testing.T) {
	db := newTestDB(t)
	err := CreateInteraction(context.Background(), db, &domain.Interaction{UserID: "u1", Type: domain.TypeHint, Response: "x"})
	if err == nil {
		t.Fatalf("expected error due to missing table")
	}
}

func TestCreateAndGetInteraction_RoundTrip(t *testing.T) {
	db := newMigratedDB(t)
	seedUser(t, db, "u1")

	pid := "p1"
	it := &domain.Interaction{
		UserID:         "u1",
		Type:           domain.TypeCodeReview,
		ProblemID:      &pid,
		Context:        datatypes.JSONMap{"problem": pid, "code": "x := 1", "language": "go"},
		Query:          "Code review for: Two Sum",
		Response:       "review text",
		TokensUsed:     42,
		ResponseTimeMs: 850,
	}
	if err := CreateInteraction(context.Background(), db, it); err != nil {
		t.Fatalf("CreateInteraction: %v", err)
	}
	if it.ID == "" || it.CreatedAt.IsZero() {
		t.Fatalf("expected ID and CreatedAt to be set: %+v", it)
	}

	got, err := GetInteraction(context.Background(), db, it.ID)
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if got.UserID != "u1" || got.TokensUsed != 42 || got.ResponseTimeMs != 850 || *got.ProblemID != "p1" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.Context["code"] != "x := 1" {
		t.Fatalf("context not persisted: %#v", got.Context)
	}

	if _, err := GetInteraction(context.Background(), db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateInteractionFeedback_OverwritesOnlyFeedback(t *testing.T) {
	db := newMigratedDB(t)
	seedUser(t, db, "u1")
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	it := seedInteraction(t, db, "u1", domain.TypeHint, created)

	yes, no := true, false
	r1, r2 := 4.0, 2.5
	c1 := "great"
	at1 := created.Add(time.Hour)
	if err := UpdateInteractionFeedback(context.Background(), db, it.ID, FeedbackUpdate{Helpful: &yes, Rating: &r1, Comment: &c1, At: at1}); err != nil {
		t.Fatalf("first feedback: %v", err)
	}
	at2 := created.Add(2 * time.Hour)
	if err := UpdateInteractionFeedback(context.Background(), db, it.ID, FeedbackUpdate{Helpful: &no, Rating: &r2, At: at2}); err != nil {
		t.Fatalf("second feedback: %v", err)
	}

	got, err := GetInteraction(context.Background(), db, it.ID)
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if got.FeedbackHelpful == nil || *got.FeedbackHelpful != false ||
		got.FeedbackRating == nil || *got.FeedbackRating != 2.5 ||
		got.FeedbackComment != nil {
		t.Fatalf("last write should win: %+v", got)
	}
	if !got.CreatedAt.Equal(created) || got.Response != "resp" {
		t.Fatalf("immutable fields changed: %+v", got)
	}

	if err := UpdateInteractionFeedback(context.Background(), db, "missing", FeedbackUpdate{At: at2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListInteractionsPage_OrderFilterAndCount(t *testing.T) {
	db := newMigratedDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		kind := domain.TypeHint
		if i%2 == 1 {
			kind = domain.TypeDebugHelp
		}
		seedInteraction(t, db, "u1", kind, base.Add(time.Duration(i)*time.Minute))
	}
	seedInteraction(t, db, "u2", domain.TypeHint, base.Add(time.Hour))

	total, err := CountInteractions(context.Background(), db, "u1", "")
	if err != nil || total != 7 {
		t.Fatalf("CountInteractions = %d, %v; want 7", total, err)
	}
	hints, err := CountInteractions(context.Background(), db, "u1", string(domain.TypeHint))
	if err != nil || hints != 4 {
		t.Fatalf("CountInteractions(hint) = %d, %v; want 4", hints, err)
	}

	page, err := ListInteractionsPage(context.Background(), db, "u1", "", 0, 3)
	if err != nil {
		t.Fatalf("ListInteractionsPage: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("len = %d; want 3", len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i].CreatedAt.After(page[i-1].CreatedAt) {
			t.Fatalf("not newest-first at %d", i)
		}
	}
	if !page[0].CreatedAt.Equal(base.Add(6 * time.Minute)) {
		t.Fatalf("first item should be newest, got %v", page[0].CreatedAt)
	}

	last, err := ListInteractionsPage(context.Background(), db, "u1", string(domain.TypeDebugHelp), 2, 10)
	if err != nil {
		t.Fatalf("ListInteractionsPage kind: %v", err)
	}
	if len(last) != 1 || last[0].Type != domain.TypeDebugHelp {
		t.Fatalf("kind page unexpected: %+v", last)
	}
}
