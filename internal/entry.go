// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/jaehui/notisync/internal/api"
	"github.com/jaehui/notisync/internal/calendar"
	"github.com/jaehui/notisync/internal/store/notion"
	"github.com/jaehui/notisync/internal/store/sqlite"
	"github.com/jaehui/notisync/internal/syncer"
)

// RunSync executes one sync pass and exits. Per-event failures are logged
// and counted but do not fail the pass; only a fetch failure (or broken
// configuration) returns an error.
func RunSync(ctx context.Context, opts ...Option) error {
	runner, _, closer, err := buildRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer closer()

	_, err = runner.Run(ctx)
	return err
}

// RunServe starts an HTTP server so an external scheduler can trigger
// passes: POST /api/sync runs one pass and returns its result.
func RunServe(ctx context.Context, opts ...Option) error {
	runner, logger, closer, err := buildRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer closer()

	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	addr := app.config.App.HTTP.Address()

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

	r.Mount("/api", api.NewRouter(runner))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", addr))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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

// buildRunner assembles the pass runner from the configuration: logger,
// window selector, record store, and event source. The returned closer
// releases the store when it holds resources.
func buildRunner(ctx context.Context, opts []Option) (*syncer.Runner, *slog.Logger, func(), error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("calendar_id", cfg.Calendar.ID),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("window", cfg.Sync.Window),
		slog.String("timezone", cfg.Sync.Timezone),
		slog.String("log_level", cfg.App.LogLevel.String()))

	windows, err := syncer.NewWindowSelector(cfg.Sync.Window, cfg.Sync.Timezone)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init window selector: %w", err)
	}

	st := app.store
	closer := func() {}
	if st == nil {
		switch cfg.Store.Backend {
		case BackendSQLite:
			db, err := sqlite.Open(cfg.Store.SQLite.Path)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("init record store: %w", err)
			}
			st = db
			closer = func() { _ = db.Close() }
		default:
			st = notion.New(cfg.Store.Notion.Token, cfg.Store.Notion.DatabaseID, notion.PropertyNames{
				Title:      cfg.Store.Notion.TitleProperty,
				Date:       cfg.Store.Notion.DateProperty,
				ExternalID: cfg.Store.Notion.ExternalIDProperty,
			})
		}
	}

	src := app.source
	if src == nil {
		src, err = calendar.NewGoogleSourceFromFile(ctx, cfg.Calendar.CredentialsFile, cfg.Calendar.ID)
		if err != nil {
			closer()
			return nil, nil, nil, fmt.Errorf("init event source: %w", err)
		}
	}

	runner := &syncer.Runner{
		Source:     src,
		Reconciler: syncer.NewReconciler(st, logger, cfg.Sync.UntitledTitle),
		Windows:    windows,
		Logger:     logger,
	}
	return runner, logger, closer, nil
}
