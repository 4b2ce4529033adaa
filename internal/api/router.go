// Package api implements the emphasize read API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"emphasize/internal/articleservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *articleservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Articles are read-only: the content directory is the write surface.
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/*", h.GetArticle)

	r.Get("/status", h.Status)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
