package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/models"
	"github.com/whisperlink/whisperlink-backend/internal/services"
	"github.com/whisperlink/whisperlink-backend/internal/store"
	"github.com/whisperlink/whisperlink-backend/pkg/clientip"
)

const (
	// MaxMessageLength bounds a stored feedback message
	MaxMessageLength = 1000
	// MaxRawInputLength bounds the raw thoughts sent for AI rewriting
	MaxRawInputLength = 500
)

// FeedbackHandler serves the anonymous feedback flow: public-link resolution,
// direct and AI-assisted submission, and both deletion paths. Dependencies are
// injected so the augmentation service carries its own credentials and timeout
// instead of living in package state.
type FeedbackHandler struct {
	profiles  *store.ProfileStore
	feedbacks *store.FeedbackStore
	augmenter services.Augmenter
}

func NewFeedbackHandler(profiles *store.ProfileStore, feedbacks *store.FeedbackStore, augmenter services.Augmenter) *FeedbackHandler {
	return &FeedbackHandler{
		profiles:  profiles,
		feedbacks: feedbacks,
		augmenter: augmenter,
	}
}

type SubmitFeedbackRequest struct {
	Message string `json:"message"`
}

type PreviewFeedbackRequest struct {
	RawInput string `json:"raw_input"`
}

type ConfirmFeedbackRequest struct {
	OriginalInput    string `json:"original_input"`
	GeneratedMessage string `json:"generated_message"`
}

type SubmitFeedbackResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FeedbackID  string `json:"feedback_id,omitempty"`
	DeleteToken string `json:"delete_token,omitempty"`
}

type PreviewFeedbackResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	OriginalInput    string `json:"original_input,omitempty"`
	GeneratedMessage string `json:"generated_message,omitempty"`
}

type ResolveProfileResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
	LinkID   string `json:"link_id,omitempty"`
}

// resolveLink parses {linkID} and looks up the owning profile. Writes the
// error response itself and returns nil when resolution fails.
func (h *FeedbackHandler) resolveLink(w http.ResponseWriter, r *http.Request) *models.Profile {
	linkID, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, SubmitFeedbackResponse{Success: false, Message: "Feedback link not found"})
		return nil
	}

	profile, err := h.profiles.GetByPublicLink(r.Context(), linkID)
	if err == store.ErrNotFound {
		writeJSON(w, http.StatusNotFound, SubmitFeedbackResponse{Success: false, Message: "Feedback link not found"})
		return nil
	}
	if err != nil {
		log.Printf("resolve feedback link: %v", err)
		writeJSON(w, http.StatusInternalServerError, SubmitFeedbackResponse{Success: false, Message: "Database error"})
		return nil
	}
	return profile
}

// ResolveProfile returns the recipient behind a shareable link so the
// submission form can greet them by name. No side effects.
func (h *FeedbackHandler) ResolveProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.resolveLink(w, r)
	if profile == nil {
		return
	}

	writeJSON(w, http.StatusOK, ResolveProfileResponse{
		Success:  true,
		Username: profile.Username,
		LinkID:   profile.PublicLink.String(),
	})
}

// SubmitFeedback handles direct-mode submission: the message is stored as
// typed, with a fresh delete token returned to the submitter.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	profile := h.resolveLink(w, r)
	if profile == nil {
		return
	}

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Message is required"})
		return
	}
	if len(message) > MaxMessageLength {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Message must be at most 1000 characters"})
		return
	}

	h.persistFeedback(w, r, profile, models.Feedback{Message: message})
}

// PreviewFeedback runs the submitter's raw thoughts through the augmentation
// service and returns the result without persisting anything. Repeatable.
func (h *FeedbackHandler) PreviewFeedback(w http.ResponseWriter, r *http.Request) {
	profile := h.resolveLink(w, r)
	if profile == nil {
		return
	}

	var req PreviewFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PreviewFeedbackResponse{Success: false, Message: "Invalid request body"})
		return
	}

	rawInput := strings.TrimSpace(req.RawInput)
	if rawInput == "" {
		writeJSON(w, http.StatusBadRequest, PreviewFeedbackResponse{Success: false, Message: "Raw input is required"})
		return
	}
	if len(rawInput) > MaxRawInputLength {
		writeJSON(w, http.StatusBadRequest, PreviewFeedbackResponse{Success: false, Message: "Raw input must be at most 500 characters"})
		return
	}

	generated := h.augmenter.GenerateFeedback(r.Context(), rawInput, profile.Username)

	writeJSON(w, http.StatusOK, PreviewFeedbackResponse{
		Success:          true,
		OriginalInput:    rawInput,
		GeneratedMessage: generated,
	})
}

// ConfirmFeedback persists a previously previewed (and possibly client-edited)
// AI message together with the original input for provenance.
func (h *FeedbackHandler) ConfirmFeedback(w http.ResponseWriter, r *http.Request) {
	profile := h.resolveLink(w, r)
	if profile == nil {
		return
	}

	var req ConfirmFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.GeneratedMessage)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Generated message is required"})
		return
	}
	if len(message) > MaxMessageLength {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Message must be at most 1000 characters"})
		return
	}
	if strings.TrimSpace(req.OriginalInput) == "" {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{Success: false, Message: "Original input is required"})
		return
	}

	h.persistFeedback(w, r, profile, models.Feedback{
		Message:       message,
		OriginalInput: req.OriginalInput,
		IsAIGenerated: true,
	})
}

func (h *FeedbackHandler) persistFeedback(w http.ResponseWriter, r *http.Request, profile *models.Profile, f models.Feedback) {
	f.ID = uuid.New()
	f.ProfileID = profile.ID
	f.DeleteToken = uuid.New()
	f.IPAddress = clientip.FromRequest(r)
	f.CreatedAt = time.Now().UTC()

	if err := h.feedbacks.Create(r.Context(), &f); err != nil {
		log.Printf("persist feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, SubmitFeedbackResponse{Success: false, Message: "Failed to submit feedback"})
		return
	}

	if err := services.PublishFeedbackEvent(r.Context(), services.FeedbackEvent{
		Type:          "feedback_received",
		ProfileID:     profile.ID.String(),
		FeedbackID:    f.ID.String(),
		Message:       f.Message,
		IsAIGenerated: f.IsAIGenerated,
		Timestamp:     f.CreatedAt,
	}); err != nil {
		log.Printf("publish feedback event: %v", err)
	}

	writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{
		Success:     true,
		Message:     "Your feedback has been submitted anonymously!",
		FeedbackID:  f.ID.String(),
		DeleteToken: f.DeleteToken.String(),
	})
}

// DeleteFeedbackByToken removes the feedback matching the submitter's delete
// token. The token is effectively single-use: once the row is gone, a second
// call gets 404.
func (h *FeedbackHandler) DeleteFeedbackByToken(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "deleteToken"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, SubmitFeedbackResponse{Success: false, Message: "Feedback not found"})
		return
	}

	err = h.feedbacks.DeleteByToken(r.Context(), token)
	if err == store.ErrNotFound {
		writeJSON(w, http.StatusNotFound, SubmitFeedbackResponse{Success: false, Message: "Feedback not found"})
		return
	}
	if err != nil {
		log.Printf("delete feedback by token: %v", err)
		writeJSON(w, http.StatusInternalServerError, SubmitFeedbackResponse{Success: false, Message: "Failed to delete feedback"})
		return
	}

	writeJSON(w, http.StatusOK, SubmitFeedbackResponse{Success: true, Message: "Your feedback has been deleted successfully!"})
}
