package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/models"
)

type FeedbackStore struct {
	db *sql.DB
}

func NewFeedbackStore(db *sql.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Create inserts a feedback row. ID, DeleteToken and CreatedAt must already be
// set by the caller.
func (s *FeedbackStore) Create(ctx context.Context, f *models.Feedback) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedbacks (id, profile_id, message, original_input, is_ai_generated, ip_address, delete_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, f.ID, f.ProfileID, f.Message, nullString(f.OriginalInput), f.IsAIGenerated, nullString(f.IPAddress), f.DeleteToken, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListByProfile returns all feedback for a profile, newest first.
func (s *FeedbackStore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, message, original_input, is_ai_generated, created_at
		FROM feedbacks
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	feedbacks := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		var original sql.NullString
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.Message, &original, &f.IsAIGenerated, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.OriginalInput = original.String
		feedbacks = append(feedbacks, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return feedbacks, nil
}

// DeleteByToken removes the feedback matching a submitter's delete token.
// Returns ErrNotFound when the token matches nothing, which also covers a
// second use of an already-spent token.
func (s *FeedbackStore) DeleteByToken(ctx context.Context, token uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE delete_token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete feedback by token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback by token: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned removes a feedback only when its recipient profile belongs to
// userID. One statement scoped by owner so a foreign feedback id fails exactly
// like a missing one.
func (s *FeedbackStore) DeleteOwned(ctx context.Context, feedbackID, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM feedbacks f
		USING profiles p
		WHERE f.id = $1 AND f.profile_id = p.id AND p.user_id = $2
	`, feedbackID, userID)
	if err != nil {
		return fmt.Errorf("delete owned feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete owned feedback: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
