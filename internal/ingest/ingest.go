// Package ingest builds publication snapshots from the content directory
// and conditionally persists them through the store gate.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"emphasize/internal/models"
	"emphasize/internal/parser"
	"emphasize/internal/resolver"
	"emphasize/internal/snapshot"
	"emphasize/internal/source"
	"emphasize/internal/store"
)

// Config wires a Pipeline.
type Config struct {
	Source        source.Provider
	Gate          *store.Gate
	Store         store.ArticleStore // optional, used only for startup hydration
	Holder        *snapshot.Holder
	DraftsVisible bool
	Logger        *slog.Logger
	OnPublish     func() // called after each successful snapshot swap
}

// Pipeline runs ingestion batches: read sources, resolve draft status,
// publish a snapshot, then persist per article through the gate.
type Pipeline struct {
	src           source.Provider
	gate          *store.Gate
	db            store.ArticleStore
	holder        *snapshot.Holder
	draftsVisible bool
	logger        *slog.Logger
	onPublish     func()
}

// New creates a pipeline. Configuration toggles are captured once here and
// never re-read mid-batch.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		src:           cfg.Source,
		gate:          cfg.Gate,
		db:            cfg.Store,
		holder:        cfg.Holder,
		draftsVisible: cfg.DraftsVisible,
		logger:        cfg.Logger,
		onPublish:     cfg.OnPublish,
	}
}

// Run executes one ingestion batch. The batch is all-or-nothing for
// visibility: any source or parse error aborts it and the previous snapshot
// stays in place. Persistence runs after the swap and is per-article; a
// failing store never blocks visibility or the rest of the batch.
func (p *Pipeline) Run(ctx context.Context) error {
	metas, err := p.src.List("")
	if err != nil {
		return fmt.Errorf("ingest: list content: %w", err)
	}

	articles := make([]models.Article, 0, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ingest: aborted: %w", err)
		}

		data, err := p.src.Read(m.Path)
		if err != nil {
			return fmt.Errorf("ingest: read %s: %w", m.Path, err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			return fmt.Errorf("ingest: parse %s: %w", m.Path, err)
		}

		status, ok := resolver.Resolve(res.FrontMatter.Draft, p.draftsVisible)
		if !ok {
			p.logger.Debug("ingest: suppressed draft", slog.String("path", m.Path))
			continue
		}

		articles = append(articles, models.Article{
			Slug:      SlugFor(m.Path),
			Title:     res.FrontMatter.Title,
			Status:    status,
			Date:      res.FrontMatter.Date,
			Tags:      res.FrontMatter.Tags,
			Content:   res.Body,
			Template:  res.FrontMatter.Template,
			Checksum:  m.Checksum,
			UpdatedAt: m.UpdatedAt,
		})
	}

	rev := p.holder.Load().Revision() + 1
	snap := snapshot.New(rev, articles)
	p.holder.Publish(snap)
	p.logger.Info("ingest: snapshot published",
		slog.Int64("revision", rev),
		slog.Int("articles", snap.Len()))
	if p.onPublish != nil {
		p.onPublish()
	}

	var failed int
	for _, a := range articles {
		if err := p.gate.MaybePersist(ctx, recordFor(a)); err != nil {
			failed++
			p.logger.Warn("ingest: persist failed",
				slog.String("slug", a.Slug),
				slog.String("error", err.Error()))
		}
	}
	if failed > 0 {
		p.logger.Warn("ingest: batch persisted with failures",
			slog.Int("failed", failed),
			slog.Int("articles", len(articles)))
	}

	return nil
}

// Hydrate seeds the first snapshot from the publication store so a restart
// serves immediately, before the first ingestion batch finishes. It is a
// no-op without a store or once a batch has already published.
func (p *Pipeline) Hydrate(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	if p.holder.Load().Revision() > 0 {
		return nil
	}

	recs, err := p.db.List(ctx, true)
	if err != nil {
		return fmt.Errorf("ingest: hydrate: %w", err)
	}

	articles := make([]models.Article, 0, len(recs))
	for _, rec := range recs {
		status, ok := resolver.Resolve(rec.Status == models.StatusDraft, p.draftsVisible)
		if !ok {
			continue
		}
		articles = append(articles, models.Article{
			Slug:      rec.Slug,
			Title:     rec.Title,
			Status:    status,
			Date:      rec.Date,
			Tags:      rec.Tags,
			Content:   rec.Content,
			Checksum:  rec.Checksum,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	p.holder.Publish(snapshot.New(0, articles))
	p.logger.Info("ingest: hydrated snapshot from store", slog.Int("articles", len(articles)))
	return nil
}

// SlugFor derives the stable article identifier from a content-relative
// file path: the extension is stripped and "index" files collapse to their
// directory, so "posts/hello/index.md" and "posts/hello.md" both map to
// "posts/hello".
func SlugFor(p string) string {
	s := strings.TrimPrefix(path.Clean(p), "./")
	if ext := path.Ext(s); ext != "" {
		s = strings.TrimSuffix(s, ext)
	}
	if s == "index" {
		return ""
	}
	return strings.TrimSuffix(s, "/index")
}

func recordFor(a models.Article) store.Record {
	return store.Record{
		Slug:      a.Slug,
		Title:     a.Title,
		Status:    a.Status,
		Date:      a.Date,
		Tags:      a.Tags,
		Content:   a.Content,
		Checksum:  a.Checksum,
		UpdatedAt: a.UpdatedAt,
	}
}
