// Package router sets up the HTTP routes and middleware chain for the
// prompt store API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"promptstore/internal/handlers"
	"promptstore/internal/metrics"
	"promptstore/internal/middleware"
)

// New creates the chi router with the global middleware chain, the health
// and metrics endpoints, and the /prompts resource. limiter and m may be nil;
// a nil limiter leaves write routes unthrottled.
func New(prompts *handlers.Prompts, health *handlers.Health, limiter *middleware.RateLimiter, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Metrics(m))

	r.Method(http.MethodGet, "/health", health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.LimitWrites)
		}
		r.Get("/prompts", prompts.List)
		r.Post("/prompts", prompts.Create)
		r.Get("/prompts/{id}", prompts.Get)
		r.Get("/prompts/{id}/html", prompts.RenderHTML)
		r.Put("/prompts/{id}", prompts.Update)
		r.Delete("/prompts/{id}", prompts.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
