package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octofit.com/tracker/internal/config"
	"octofit.com/tracker/pkg/dto"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	infra := &Infra{Config: &config.Config{AllowedOrigins: []string{"http://localhost:3000"}}}
	return NewServer(infra, &Services{}).Handler()
}

func TestAPIRootLinksEveryCollection(t *testing.T) {
	handler := newTestServer(t)

	for _, path := range []string{"/", "/api"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Host = "octofit.local:8080"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		var root dto.APIRoot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
		assert.Equal(t, "http://octofit.local:8080/api/users/", root.Users)
		assert.Equal(t, "http://octofit.local:8080/api/teams/", root.Teams)
		assert.Equal(t, "http://octofit.local:8080/api/activities/", root.Activities)
		assert.Equal(t, "http://octofit.local:8080/api/leaderboard/", root.Leaderboard)
		assert.Equal(t, "http://octofit.local:8080/api/workouts/", root.Workouts)
	}
}

func TestAPIRootHonoursForwardedProto(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Host = "octofit.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var root dto.APIRoot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "https://octofit.example.com/api/users/", root.Users)
}

func TestHealthzWithoutDatabase(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "octofit_leaderboard_entries")
}

func TestInvalidIDsAreRejectedBeforeTheService(t *testing.T) {
	handler := newTestServer(t)

	for _, path := range []string{
		"/api/users/not-a-uuid",
		"/api/teams/not-a-uuid",
		"/api/activities/not-a-uuid",
		"/api/workouts/not-a-uuid",
		"/api/leaderboard/not-a-uuid",
	} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestLiveLeaderboardNeedsRedis(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leaderboard/ws", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMeiliURL(t *testing.T) {
	assert.Equal(t, "http://meili:7700", meiliURL("meili"))
	assert.Equal(t, "https://search.example.com", meiliURL("https://search.example.com"))
}
