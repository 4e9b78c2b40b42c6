package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/middleware"
	"github.com/whisperlink/whisperlink-backend/internal/models"
	"github.com/whisperlink/whisperlink-backend/internal/store"
)

// DashboardHandler serves the recipient side: received feedback, share links,
// and owner-scoped deletion.
type DashboardHandler struct {
	profiles    *store.ProfileStore
	feedbacks   *store.FeedbackStore
	frontendURL string
}

func NewDashboardHandler(profiles *store.ProfileStore, feedbacks *store.FeedbackStore, frontendURL string) *DashboardHandler {
	return &DashboardHandler{
		profiles:    profiles,
		feedbacks:   feedbacks,
		frontendURL: frontendURL,
	}
}

type DashboardResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	FeedbackLink string            `json:"feedback_link,omitempty"`
	Feedbacks    []models.Feedback `json:"feedbacks"`
	Total        int               `json:"total"`
}

type ProfileSettingsResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	LinkID       string `json:"link_id,omitempty"`
	FeedbackLink string `json:"feedback_link,omitempty"`
	WhatsAppURL  string `json:"whatsapp_url,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type DeleteFeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// profileFor lazily creates the caller's profile on first dashboard access.
func (h *DashboardHandler) profileFor(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, DeleteFeedbackResponse{Success: false, Message: "Not authenticated"})
		return nil, false
	}

	profile, err := h.profiles.GetOrCreateByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("get or create profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, DeleteFeedbackResponse{Success: false, Message: "Database error"})
		return nil, false
	}
	return profile, true
}

// GetDashboard returns the caller's share link and received feedback,
// newest first.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profileFor(w, r)
	if !ok {
		return
	}

	feedbacks, err := h.feedbacks.ListByProfile(r.Context(), profile.ID)
	if err != nil {
		log.Printf("list feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, DashboardResponse{Success: false, Message: "Failed to fetch feedback", Feedbacks: []models.Feedback{}})
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Success:      true,
		FeedbackLink: h.shareURL(profile),
		Feedbacks:    feedbacks,
		Total:        len(feedbacks),
	})
}

// GetProfileSettings returns the share link plus a prefilled WhatsApp
// share URL.
func (h *DashboardHandler) GetProfileSettings(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profileFor(w, r)
	if !ok {
		return
	}

	shareURL := h.shareURL(profile)
	message := "Hi! I'd love to get your honest feedback about me. You can share your thoughts anonymously here: " + shareURL

	writeJSON(w, http.StatusOK, ProfileSettingsResponse{
		Success:      true,
		LinkID:       profile.PublicLink.String(),
		FeedbackLink: shareURL,
		WhatsAppURL:  "https://wa.me/?text=" + url.QueryEscape(message),
		CreatedAt:    profile.CreatedAt.Format("2006-01-02"),
	})
}

// DeleteReceivedFeedback removes a feedback from the caller's dashboard. A
// feedback id belonging to someone else's profile gets the same 404 as a
// missing one.
func (h *DashboardHandler) DeleteReceivedFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, DeleteFeedbackResponse{Success: false, Message: "Not authenticated"})
		return
	}

	feedbackID, err := uuid.Parse(chi.URLParam(r, "feedbackID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, DeleteFeedbackResponse{Success: false, Message: "Feedback not found"})
		return
	}

	err = h.feedbacks.DeleteOwned(r.Context(), feedbackID, userID)
	if err == store.ErrNotFound {
		writeJSON(w, http.StatusNotFound, DeleteFeedbackResponse{Success: false, Message: "Feedback not found"})
		return
	}
	if err != nil {
		log.Printf("delete received feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, DeleteFeedbackResponse{Success: false, Message: "Failed to delete feedback"})
		return
	}

	writeJSON(w, http.StatusOK, DeleteFeedbackResponse{Success: true, Message: "Feedback has been deleted from your dashboard!"})
}

func (h *DashboardHandler) shareURL(profile *models.Profile) string {
	return h.frontendURL + profile.FeedbackPath()
}
