package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/whisperlink/whisperlink-backend/internal/handlers"
	"github.com/whisperlink/whisperlink-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, fh *handlers.FeedbackHandler, dh *handlers.DashboardHandler) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.With(middleware.RequireSession).Get("/api/auth/me", handlers.GetMe)

	// Anonymous feedback routes (public link scope)
	r.Get("/api/feedback/{linkID}", fh.ResolveProfile)
	r.Post("/api/feedback/{linkID}", fh.SubmitFeedback)
	r.Post("/api/feedback/{linkID}/preview", fh.PreviewFeedback)
	r.Post("/api/feedback/{linkID}/confirm", fh.ConfirmFeedback)
	r.Delete("/api/feedback/delete/{deleteToken}", fh.DeleteFeedbackByToken)

	// Recipient dashboard routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/api/dashboard", dh.GetDashboard)
		r.Get("/api/profile", dh.GetProfileSettings)
		r.Delete("/api/dashboard/feedback/{feedbackID}", dh.DeleteReceivedFeedback)
	})

	// WebSocket endpoint for live dashboard updates (token auth inside)
	r.Get("/ws/dashboard", dh.DashboardWebSocket)
}
