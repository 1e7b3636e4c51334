package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trakaido/trakaido-backend/pkg/ctxutil"
)

func TestRequestID_Generated(t *testing.T) {
	var ctxID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = ctxutil.RequestIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rec, req)

	if ctxID == "" {
		t.Error("expected generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != ctxID {
		t.Errorf("response header = %q, context = %q", got, ctxID)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var ctxID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = ctxutil.RequestIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-chosen-id")
	rec := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rec, req)

	if ctxID != "client-chosen-id" {
		t.Errorf("context id = %q, want client-chosen-id", ctxID)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "client-chosen-id" {
		t.Errorf("response header = %q, want client-chosen-id", got)
	}
}
