package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler(&pingerStub{}, "test")

	rr := httptest.NewRecorder()
	h.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("store up", func(t *testing.T) {
		h := NewHealthHandler(&pingerStub{}, "test")

		rr := httptest.NewRecorder()
		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("store down", func(t *testing.T) {
		h := NewHealthHandler(&pingerStub{err: errors.New("disk gone")}, "test")

		rr := httptest.NewRecorder()
		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(&pingerStub{}, "1.2.3")

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, rr.Body.String(), "local_store")
}
