// Package store persists resolved article state to SQLite.
package store

import (
	"context"
	"time"

	"emphasize/internal/models"
)

// Record is a durable row in the articles table. Version is the revision of
// the row the caller last observed; Put rejects writes whose Version does
// not match the stored one.
type Record struct {
	Slug      string
	Title     string
	Status    models.Status
	Date      string
	Tags      []string
	Content   string
	Checksum  string
	Version   int64
	UpdatedAt time.Time
}

// ArticleStore is the publication store contract.
//
// Put upserts a record keyed by slug; it fails with apperr.ErrUnavailable
// when the backing connection cannot be reached or the context deadline
// expires, and with apperr.ErrConflict when the version check detects a
// concurrent modification.
//
// Get returns apperr.ErrNotFound for an absent slug; it never fabricates a
// record. List returns records ordered by updated_at descending, excluding
// drafts unless includeDrafts is set.
type ArticleStore interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, slug string) (*Record, error)
	List(ctx context.Context, includeDrafts bool) ([]Record, error)
	Close() error
}

// Verify *DB satisfies ArticleStore at compile time.
var _ ArticleStore = (*DB)(nil)
