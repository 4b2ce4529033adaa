// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"emphasize/internal/api"
	"emphasize/internal/articleservice"
	"emphasize/internal/ingest"
	"emphasize/internal/mcpserver"
	"emphasize/internal/snapshot"
	"emphasize/internal/source"
	"emphasize/internal/sse"
	"emphasize/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP stdio mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpStdio {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("drafts_visible", cfg.Publish.DraftsVisible),
		slog.String("persistence", cfg.Publish.Persistence),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	src, err := source.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}

	// The store is opened only when persistence is enabled: the gate never
	// touches it otherwise, and the pipeline path is identical either way.
	var db store.ArticleStore
	if cfg.Publish.PersistenceEnabled() {
		sdb, err := store.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer sdb.Close()
		db = sdb
	}
	gate := store.NewGate(db, cfg.Publish.PersistenceEnabled(), cfg.Publish.StoreTimeout)

	holder := snapshot.NewHolder()

	broker := sse.NewBroker()
	defer broker.Close()

	pipeline := ingest.New(ingest.Config{
		Source:        src,
		Gate:          gate,
		Store:         db,
		Holder:        holder,
		DraftsVisible: cfg.Publish.DraftsVisible,
		Logger:        logger,
		OnPublish:     broker.NotifyReload,
	})

	// Serve the last durable state while the first batch runs.
	if err := pipeline.Hydrate(ctx); err != nil {
		logger.Warn("hydration failed", slog.String("error", err.Error()))
	}

	// Run the initial ingestion batch.
	if err := pipeline.Run(ctx); err != nil {
		logger.Warn("initial ingest failed, serving previous state", slog.String("error", err.Error()))
	}

	svc := articleservice.NewService(holder, cfg.Publish.DraftsVisible, cfg.Publish.PersistenceEnabled())

	if app.mcpStdio {
		logger.Info("Serving MCP tools on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	apiRouter := api.NewRouter(svc, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	// Bind eagerly: an unavailable port is fatal at startup, not after the
	// first request.
	ln, err := net.Listen("tcp", cfg.App.HTTP.Address())
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.App.HTTP.Address(), err)
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Re-ingest on content changes.
	g.Go(func() error {
		return ingest.Watch(gCtx, pipeline, cfg.Content.Path, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
