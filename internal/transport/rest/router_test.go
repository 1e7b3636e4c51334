package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakaido/trakaido-backend/internal/auth"
	"github.com/trakaido/trakaido-backend/internal/config"
	"github.com/trakaido/trakaido-backend/internal/wordlist"
)

type pingerStub struct{ err error }

func (p *pingerStub) Ping(_ context.Context) error { return p.err }

func newTestRouter(t *testing.T) (http.Handler, *auth.JWTManager) {
	t.Helper()

	catalog, err := wordlist.Load()
	require.NoError(t, err)

	jwtMgr := auth.NewJWTManager("router-test-secret-at-least-32-chars!!", "trakaido", time.Hour)
	learnerID := uuid.New()

	h := Handlers{
		Auth:     NewAuthHandler(jwtMgr, "", learnerID, testLogger()),
		Stats:    NewStatsHandler(&statsServiceStub{}, testLogger()),
		Choices:  NewChoicesHandler(&choicesServiceStub{}, testLogger()),
		Journey:  NewJourneyHandler(&journeyServiceStub{size: 3}, testLogger()),
		Settings: NewSettingsHandler(&settingsServiceStub{mode: "LOCAL"}, newPrefsKV(), testLogger()),
		Wordlist: NewWordlistHandler(catalog, testLogger()),
		Health:   NewHealthHandler(&pingerStub{}, "test"),
	}

	corsCfg := config.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,PUT,OPTIONS",
		AllowedHeaders: "Authorization,Content-Type",
	}
	return NewRouter(testLogger(), corsCfg, jwtMgr, h), jwtMgr
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/api/trakaido/wordlists"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "path %s", path)
	}
}

func TestRouter_LearnerRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/trakaido/journeystats/",
		"/api/trakaido/corpuschoices/",
		"/api/trakaido/journey/next",
		"/api/trakaido/settings/storage-mode",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "path %s", path)
	}
}

func TestRouter_LearnerRoutesWithToken(t *testing.T) {
	router, jwtMgr := newTestRouter(t)

	token, err := jwtMgr.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/trakaido/journey/universe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"size":3}`, rr.Body.String())
}

func TestRouter_RejectsBadToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trakaido/journey/next", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_SetsRequestID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestRouter_Wordlists(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trakaido/wordlists/nouns_one", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "nouns_one")

	req = httptest.NewRequest(http.MethodGet, "/api/trakaido/wordlists/no_such_corpus", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
