// Package articleservice exposes read operations over the current
// publication snapshot.
package articleservice

import (
	"context"
	"time"

	"emphasize/internal/apperr"
	"emphasize/internal/models"
	"emphasize/internal/snapshot"
)

// defaultLimit caps unpaginated list requests.
const defaultLimit = 100

// ArticleDetail is the full representation of a published article.
type ArticleDetail struct {
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Status    models.Status `json:"status"`
	Date      string        `json:"date,omitempty"`
	Tags      []string      `json:"tags"`
	Content   string        `json:"content"`
	Checksum  string        `json:"checksum"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ArticleListItem is a lightweight item in a list response.
type ArticleListItem struct {
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Status    models.Status `json:"status"`
	Date      string        `json:"date,omitempty"`
	Tags      []string      `json:"tags"`
	Checksum  string        `json:"checksum"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// StatusInfo reports the serving state of the process.
type StatusInfo struct {
	Articles      int   `json:"articles"`
	Revision      int64 `json:"revision"`
	DraftsVisible bool  `json:"drafts_visible"`
	Persistence   bool  `json:"persistence"`
}

// Service answers read requests against the current snapshot. It never
// touches the publication store: reads only ever reflect the most recent
// successfully constructed snapshot.
type Service struct {
	holder        *snapshot.Holder
	draftsVisible bool
	persistence   bool
}

// NewService creates a read service over the snapshot holder.
func NewService(holder *snapshot.Holder, draftsVisible, persistence bool) *Service {
	return &Service{holder: holder, draftsVisible: draftsVisible, persistence: persistence}
}

// GetArticle returns a single article by slug, or apperr.ErrNotFound.
// Suppressed drafts are absent from the snapshot, so they 404 like any
// unknown slug rather than leaking through a hidden flag.
func (s *Service) GetArticle(_ context.Context, slug string) (*ArticleDetail, error) {
	a, ok := s.holder.Load().Get(slug)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &ArticleDetail{
		Slug:      a.Slug,
		Title:     a.Title,
		Status:    a.Status,
		Date:      a.Date,
		Tags:      nonNilSlice(a.Tags),
		Content:   a.Content,
		Checksum:  a.Checksum,
		UpdatedAt: a.UpdatedAt,
	}, nil
}

// ListArticles returns articles ordered by last update descending, with
// optional tag filter and pagination. total counts all matches before
// pagination.
func (s *Service) ListArticles(_ context.Context, limit, offset int, tag string) ([]ArticleListItem, int, error) {
	snap := s.holder.Load()

	total := len(snap.List(snapshot.Filter{Tag: tag}))

	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	articles := snap.List(snapshot.Filter{Tag: tag, Limit: limit, Offset: offset})

	items := make([]ArticleListItem, len(articles))
	for i, a := range articles {
		items[i] = ArticleListItem{
			Slug:      a.Slug,
			Title:     a.Title,
			Status:    a.Status,
			Date:      a.Date,
			Tags:      nonNilSlice(a.Tags),
			Checksum:  a.Checksum,
			UpdatedAt: a.UpdatedAt,
		}
	}
	return items, total, nil
}

// Status reports the current snapshot revision and the process toggles.
func (s *Service) Status(_ context.Context) StatusInfo {
	snap := s.holder.Load()
	return StatusInfo{
		Articles:      snap.Len(),
		Revision:      snap.Revision(),
		DraftsVisible: s.draftsVisible,
		Persistence:   s.persistence,
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
