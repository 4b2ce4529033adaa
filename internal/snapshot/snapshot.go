// Package snapshot holds the immutable resolved article set served to
// readers. A new snapshot is built off to the side by an ingestion batch and
// made visible with a single atomic pointer swap; requests in flight keep
// reading the snapshot they started with.
package snapshot

import (
	"sort"
	"sync/atomic"

	"emphasize/internal/models"
)

// Snapshot is an immutable view of all resolved articles. Suppressed
// articles are never part of a snapshot.
type Snapshot struct {
	revision int64
	bySlug   map[string]models.Article
	ordered  []models.Article // updated_at descending, slug ascending on ties
}

// New builds a snapshot from resolved articles. Duplicate slugs within the
// batch collapse to the last occurrence, matching upsert semantics.
func New(revision int64, articles []models.Article) *Snapshot {
	bySlug := make(map[string]models.Article, len(articles))
	for _, a := range articles {
		bySlug[a.Slug] = a
	}

	ordered := make([]models.Article, 0, len(bySlug))
	for _, a := range bySlug {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].UpdatedAt.Equal(ordered[j].UpdatedAt) {
			return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
		}
		return ordered[i].Slug < ordered[j].Slug
	})

	return &Snapshot{revision: revision, bySlug: bySlug, ordered: ordered}
}

// Empty returns the zero snapshot served before the first batch completes.
func Empty() *Snapshot {
	return New(0, nil)
}

// Revision returns the batch revision this snapshot was built by.
func (s *Snapshot) Revision() int64 {
	return s.revision
}

// Len returns the number of articles in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.ordered)
}

// Get returns the article for a slug.
func (s *Snapshot) Get(slug string) (models.Article, bool) {
	a, ok := s.bySlug[slug]
	return a, ok
}

// Filter narrows List output.
type Filter struct {
	Tag    string
	Limit  int // <= 0 means no limit
	Offset int
}

// List returns articles ordered by last update, most recent first.
func (s *Snapshot) List(f Filter) []models.Article {
	matched := s.ordered
	if f.Tag != "" {
		matched = make([]models.Article, 0, len(s.ordered))
		for _, a := range s.ordered {
			if hasTag(a, f.Tag) {
				matched = append(matched, a)
			}
		}
	}

	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= len(matched) {
		return nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	out := make([]models.Article, len(matched))
	copy(out, matched)
	return out
}

func hasTag(a models.Article, tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Holder is the single shared handle mutated by the ingestion path and read
// by the server path. Replacement is one atomic swap, never an in-place
// mutation.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

// NewHolder creates a holder serving the empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	h.cur.Store(Empty())
	return h
}

// Load returns the currently visible snapshot.
func (h *Holder) Load() *Snapshot {
	return h.cur.Load()
}

// Publish atomically replaces the visible snapshot.
func (h *Holder) Publish(s *Snapshot) {
	h.cur.Store(s)
}
