package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/models"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetByPublicLink resolves a shareable link token to its profile, including
// the owner's username for display on the submission form.
func (s *ProfileStore) GetByPublicLink(ctx context.Context, link uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, p.public_link, p.created_at, u.username
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.public_link = $1 AND u.is_active = TRUE
	`, link).Scan(&p.ID, &p.UserID, &p.PublicLink, &p.CreatedAt, &p.Username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by link: %w", err)
	}
	return &p, nil
}

// GetOrCreateByUserID returns the user's profile, creating it with a fresh
// link token on first access. Safe under concurrent first requests: the insert
// is a no-op when another request won the UNIQUE(user_id) race.
func (s *ProfileStore) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.getByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, public_link, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.New(), userID, uuid.New())
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return s.getByUserID(ctx, userID)
}

func (s *ProfileStore) getByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, public_link, created_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.PublicLink, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by user: %w", err)
	}
	return &p, nil
}
