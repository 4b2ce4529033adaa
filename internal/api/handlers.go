package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"emphasize/internal/apperr"
	"emphasize/internal/articleservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *articleservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *articleservice.Service) *Handler {
	return &Handler{svc: svc}
}

// articleSlug extracts the slug from the URL (everything after
// /api/articles/). Supports encoded slashes (e.g. posts%2Fhello).
func articleSlug(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListArticles handles GET /api/articles with optional pagination and tag
// filter. Suppressed drafts are absent from the result entirely.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")

	items, total, err := h.svc.ListArticles(r.Context(), limit, offset, tag)
	if err != nil {
		slog.Error("list articles failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{
		Articles: items,
		Total:    total,
	})
}

// GetArticle handles GET /api/articles/*.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := articleSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	article, err := h.svc.GetArticle(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get article failed", slog.String("slug", slug), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status(r.Context()))
}
