package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the feedback recipient. Exactly one per user; PublicLink is the
// random token embedded in the shareable submission URL.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PublicLink uuid.UUID `json:"public_link"`
	CreatedAt  time.Time `json:"created_at"`

	// Username of the owning account, populated on public-link lookups so the
	// submission form can address the recipient by name.
	Username string `json:"username,omitempty"`
}

// FeedbackPath returns the shareable submission path for this profile.
func (p *Profile) FeedbackPath() string {
	return "/feedback/" + p.PublicLink.String()
}
