package handlers

import (
	"net/http"

	"github.com/whisperlink/whisperlink-backend/internal/database"
)

type HealthResponse struct {
	Database string `json:"database"`
	Status   string `json:"status"`
}

// HealthCheck reports database connectivity so deploy probes catch a broken
// connection string before users do.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	var one int
	if err := database.PostgresDB.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil {
		dbStatus = "error: " + err.Error()
	}

	status := "healthy"
	code := http.StatusOK
	if dbStatus != "connected" {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Database: dbStatus, Status: status})
}
