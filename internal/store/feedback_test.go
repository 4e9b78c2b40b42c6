package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/models"
)

func newFeedbackStoreWithMock(t *testing.T) (*FeedbackStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewFeedbackStore(db), mock, db
}

func TestFeedbackCreate_Direct(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	f := models.Feedback{
		ID:          uuid.New(),
		ProfileID:   uuid.New(),
		Message:     "Great job on the launch!",
		DeleteToken: uuid.New(),
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO feedbacks`).
		WithArgs(f.ID, f.ProfileID, f.Message, sql.NullString{}, false, sql.NullString{}, f.DeleteToken, f.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Create(context.Background(), &f); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFeedbackCreate_Augmented(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	f := models.Feedback{
		ID:            uuid.New(),
		ProfileID:     uuid.New(),
		Message:       "You communicate with clarity.",
		OriginalInput: "ur good at explaining",
		IsAIGenerated: true,
		IPAddress:     "203.0.113.9",
		DeleteToken:   uuid.New(),
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO feedbacks`).
		WithArgs(f.ID, f.ProfileID, f.Message,
			sql.NullString{String: f.OriginalInput, Valid: true}, true,
			sql.NullString{String: f.IPAddress, Valid: true}, f.DeleteToken, f.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Create(context.Background(), &f); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestListByProfile(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	profileID := uuid.New()
	newer := uuid.New()
	older := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "profile_id", "message", "original_input", "is_ai_generated", "created_at"}).
		AddRow(newer.String(), profileID.String(), "second", nil, false, time.Now()).
		AddRow(older.String(), profileID.String(), "first", "raw first", true, time.Now().Add(-time.Hour))
	mock.ExpectQuery(`SELECT id, profile_id, message, original_input, is_ai_generated, created_at`).
		WithArgs(profileID).
		WillReturnRows(rows)

	feedbacks, err := s.ListByProfile(context.Background(), profileID)
	if err != nil {
		t.Fatalf("ListByProfile error: %v", err)
	}
	if len(feedbacks) != 2 {
		t.Fatalf("expected 2 feedbacks, got %d", len(feedbacks))
	}
	if feedbacks[0].ID != newer || feedbacks[0].OriginalInput != "" {
		t.Fatalf("unexpected first feedback: %+v", feedbacks[0])
	}
	if !feedbacks[1].IsAIGenerated || feedbacks[1].OriginalInput != "raw first" {
		t.Fatalf("unexpected second feedback: %+v", feedbacks[1])
	}
}

func TestDeleteByToken_SingleUse(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	token := uuid.New()

	mock.ExpectExec(`DELETE FROM feedbacks WHERE delete_token`).
		WithArgs(token).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM feedbacks WHERE delete_token`).
		WithArgs(token).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteByToken(context.Background(), token); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	err := s.DeleteByToken(context.Background(), token)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwned_NotOwner(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	feedbackID := uuid.New()
	strangerID := uuid.New()

	mock.ExpectExec(`DELETE FROM feedbacks f`).
		WithArgs(feedbackID, strangerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteOwned(context.Background(), feedbackID, strangerID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwned_Owner(t *testing.T) {
	s, mock, db := newFeedbackStoreWithMock(t)
	defer db.Close()

	feedbackID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM feedbacks f`).
		WithArgs(feedbackID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteOwned(context.Background(), feedbackID, ownerID); err != nil {
		t.Fatalf("DeleteOwned error: %v", err)
	}
}
