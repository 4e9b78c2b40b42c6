package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperlink/whisperlink-backend/internal/services"
)

func dialDashboard(t *testing.T, env *feedbackTestEnv, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func TestDashboardWebSocket_MissingToken(t *testing.T) {
	env := newFeedbackTestEnv(t, &stubAugmenter{})

	conn, resp, err := dialDashboard(t, env, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardWebSocket_BearerToken(t *testing.T) {
	setupSessionRedis(t)
	env := newFeedbackTestEnv(t, &stubAugmenter{})

	userID := uuid.New()
	token, err := services.CreateSession(userID)
	require.NoError(t, err)

	profileRows := sqlmock.NewRows([]string{"id", "user_id", "public_link", "created_at"}).
		AddRow(uuid.New().String(), userID.String(), uuid.New().String(), time.Now())
	env.mock.ExpectQuery(`SELECT id, user_id, public_link, created_at`).
		WithArgs(userID).
		WillReturnRows(profileRows)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := dialDashboard(t, env, header)
	require.NoError(t, err, "bearer header must authenticate the socket")
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}

func TestDashboardWebSocket_QueryToken(t *testing.T) {
	setupSessionRedis(t)
	env := newFeedbackTestEnv(t, &stubAugmenter{})

	userID := uuid.New()
	token, err := services.CreateSession(userID)
	require.NoError(t, err)

	profileRows := sqlmock.NewRows([]string{"id", "user_id", "public_link", "created_at"}).
		AddRow(uuid.New().String(), userID.String(), uuid.New().String(), time.Now())
	env.mock.ExpectQuery(`SELECT id, user_id, public_link, created_at`).
		WithArgs(userID).
		WillReturnRows(profileRows)

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}
