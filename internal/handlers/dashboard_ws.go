package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/whisperlink/whisperlink-backend/internal/middleware"
	"github.com/whisperlink/whisperlink-backend/internal/services"
)

var dashboardUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced at the HTTP layer for the rest of the API; the
		// websocket authenticates with a session token instead.
		return true
	},
}

// DashboardWebSocket streams newly received feedback to the recipient's
// dashboard. Authentication is the session token, passed either as
// Authorization: Bearer <token> or a `token` query parameter for browser
// clients.
func (h *DashboardHandler) DashboardWebSocket(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.GetOrCreateByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("dashboard ws: get profile: %v", err)
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	conn, err := dashboardUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	unregister := services.RegisterDashboardConn(profile.ID, conn)
	defer unregister()

	// Reader loop exists only to detect disconnects and answer pings; the
	// dashboard never sends application messages.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
