package store

import (
	"context"
	"errors"
	"time"

	"emphasize/internal/apperr"
)

// Gate wraps the publication store behind the process-wide persistence
// toggle. The toggle is fixed at construction time so one ingestion batch
// can never mix persisted and non-persisted articles. When disabled, the
// wrapped store is never touched.
type Gate struct {
	store   ArticleStore
	enabled bool
	timeout time.Duration
}

// NewGate creates a persistence gate. db may be nil when enabled is false.
func NewGate(db ArticleStore, enabled bool, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gate{store: db, enabled: enabled, timeout: timeout}
}

// Enabled reports whether writes reach the store.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// MaybePersist writes rec to the store when persistence is enabled, and
// returns success immediately otherwise. The stored version is read first so
// the write carries a matching version check; both operations share one
// timeout, and a deadline surfaces as apperr.ErrUnavailable from the store.
func (g *Gate) MaybePersist(ctx context.Context, rec Record) error {
	if !g.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	existing, err := g.store.Get(ctx, rec.Slug)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		rec.Version = 0
	case err != nil:
		return err
	default:
		rec.Version = existing.Version
	}

	return g.store.Put(ctx, rec)
}
