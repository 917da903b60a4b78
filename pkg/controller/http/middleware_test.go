package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/scoreboard/pkg/controller/http"
)

func TestCORS(t *testing.T) {
	called := false
	handler := controller.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("adds headers", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/frame", nil))

		gt.True(t, called)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Methods"), "GET, PUT, OPTIONS")
	})

	t.Run("preflight stops the chain", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/settings", nil))

		gt.False(t, called)
		gt.Equal(t, w.Code, http.StatusNoContent)
	})
}

func TestNoStore(t *testing.T) {
	handler := controller.NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	gt.Equal(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.With(context.Background(), logger)

	var inner *slog.Logger
	handler := middleware.RequestID(controller.LoggingMiddleware(ctx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = ctxlog.From(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/frame", nil))

	gt.Equal(t, w.Code, http.StatusTeapot)
	gt.V(t, inner).NotNil()
	gt.S(t, buf.String()).Contains(`"msg":"HTTP request"`)
	gt.S(t, buf.String()).Contains(`"path":"/api/frame"`)
	gt.S(t, buf.String()).Contains(`"status":418`)
	gt.S(t, buf.String()).Contains(`"requestID"`)
}
