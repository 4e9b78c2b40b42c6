package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is one anonymous submission.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Message string `json:"message"`

	// AI provenance: OriginalInput holds the submitter's raw text when the
	// stored message was rewritten by the augmentation service.
	IsAIGenerated bool   `json:"is_ai_generated"`
	OriginalInput string `json:"original_input,omitempty"`

	// Optional: submitter IP for abuse diagnostics, never shown to the recipient
	IPAddress string `json:"-"`

	// DeleteToken authorizes the anonymous submitter to remove this feedback.
	// Returned once at creation, never listed to the recipient.
	DeleteToken uuid.UUID `json:"-"`
}
