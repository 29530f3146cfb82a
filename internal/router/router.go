// Package router sets up all HTTP routes and middleware chains for the
// ingestion API. Routes are grouped by resource; every request passes the
// recovery and structured-logging middleware.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"contentvault/internal/handlers"
	"contentvault/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/content", func(r chi.Router) {
		r.Get("/", api.ListContent)
		r.Post("/", api.IngestURL)
		r.Post("/upload", api.IngestUpload)
		r.Get("/{id}", api.GetContent)
		r.Delete("/{id}", api.DeleteContent)
		r.Get("/{id}/text", api.GetContentText)
		r.Post("/{id}/reextract", api.ReextractContent)
		r.Put("/{id}/tags", api.SetContentTags)
	})

	r.Route("/bundles", func(r chi.Router) {
		r.Get("/", api.ListBundles)
		r.Post("/", api.CreateBundle)
		r.Get("/{id}", api.GetBundle)
		r.Delete("/{id}", api.DeleteBundle)
		r.Put("/{id}/content", api.UpdateBundleMembers)
		r.Post("/{id}/attempts", api.CreateBundleAttempt)
		r.Get("/{id}/attempts", api.ListBundleAttempts)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", api.ListJobs)
		r.Post("/", api.CreateJob)
		r.Get("/{id}", api.GetJob)
		r.Post("/{id}/retry", api.RetryJob)
	})

	return r
}

// healthHandler responds to health checks with a simple OK.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
