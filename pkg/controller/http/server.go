package http

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/frontend"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server for the dashboard
func NewServer(
	ctx context.Context,
	addr string,
	collection string,
	dashboard interfaces.Dashboard,
	store *FrameStore,
	palette *model.Palette,
) (*Server, error) {
	if palette == nil {
		palette = model.DefaultPalette()
	}

	tmpl, err := frontend.ParseTemplates(templateFuncs(palette))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse dashboard templates")
	}

	staticFS, err := frontend.GetHTTPFS()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open embedded static assets")
	}

	h := &dashboardHandler{
		collection: collection,
		dashboard:  dashboard,
		store:      store,
		tmpl:       tmpl,
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Dashboard page and operator controls
	router.Group(func(r chi.Router) {
		r.Use(NoStore)
		r.Get("/", h.handlePage)
		r.Post("/settings", h.handleSettingsForm)
		r.Get("/charts/{file}", h.handleChart)
	})
	router.Handle("/static/*", http.StripPrefix("/static", NewStaticHandler(staticFS)))

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Use(NoStore)
		r.Get("/frame", h.handleFrame)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handlePutSettings)
	})

	ctxlog.From(ctx).Info("Dashboard routes configured", "collection", collection)

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "scoreboard",
	})
}

// writeJSON encodes v before writing the header so an encoding failure becomes a 500
// instead of a truncated body
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to encode JSON response"))
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write JSON response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	message := err.Error()
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}

// templateFuncs returns the helpers used by the dashboard templates
func templateFuncs(palette *model.Palette) template.FuncMap {
	return template.FuncMap{
		"fmtMarks":  fmtMarks,
		"fmtTime":   fmtTime,
		"tierColor": palette.TierColor,
	}
}
