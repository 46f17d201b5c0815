package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/starford/berkano/internal/dispatch"
	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/ingest"
	"github.com/starford/berkano/internal/livereload"
	"github.com/starford/berkano/internal/mcpserver"
	"github.com/starford/berkano/internal/search"
	"github.com/starford/berkano/internal/server"
	"github.com/starford/berkano/internal/site"
	"github.com/starford/berkano/internal/storage"
	"github.com/starford/berkano/internal/tui"
)

func setup(logOut io.Writer, opts []Option) (*Config, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app.config, logger, nil
}

// loadGarden reads the content tree into a repository and search index.
func loadGarden(ctx context.Context, cfg *Config, logger *slog.Logger) (*storage.FS, *garden.Repository, *search.Index, error) {
	if err := os.MkdirAll(cfg.Garden.ContentPath, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create content dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Garden.ContentPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	notes, diags, err := ingest.Load(ctx, store, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	repo, diags := ingest.BuildRepository(notes, diags, logger)

	logger.Info("garden loaded",
		slog.Int("notes", repo.Len()),
		slog.Int("published", len(repo.Published())),
		slog.Int("skipped", len(diags)))

	return store, repo, search.Build(repo.Published()), nil
}

func newBuilder(cfg *Config, repo *garden.Repository, store *storage.FS, logger *slog.Logger) (*site.Builder, error) {
	if err := os.MkdirAll(cfg.Garden.OutputPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	out, err := storage.NewFS(cfg.Garden.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}
	return site.NewBuilder(repo, store, out, cfg.Garden.TemplatePath, cfg.Garden.StaticPath, logger)
}

// Build generates the static site once and exits.
func Build(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(os.Stdout, opts)
	if err != nil {
		return err
	}

	store, repo, _, err := loadGarden(ctx, cfg, logger)
	if err != nil {
		return err
	}

	builder, err := newBuilder(cfg, repo, store, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := builder.Build(); err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	logger.Info("site built",
		slog.String("output", cfg.Garden.OutputPath),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Serve builds the site, serves it over HTTP, and rebuilds on content
// changes with livereload notifications.
func Serve(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(os.Stdout, opts)
	if err != nil {
		return err
	}

	rebuild := func() error {
		store, repo, _, err := loadGarden(ctx, cfg, logger)
		if err != nil {
			return err
		}
		builder, err := newBuilder(cfg, repo, store, logger)
		if err != nil {
			return err
		}
		return builder.Build()
	}

	if err := rebuild(); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	broker := livereload.NewBroker()
	defer broker.Close()

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: server.NewRouter(cfg.Garden.OutputPath, broker),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Watch(gCtx, cfg.Garden.ContentPath, logger,
			rebuild,
			broker.PublishReload,
		)
	})

	g.Go(func() error {
		logger.Info("preview server starting", slog.String("address", cfg.App.HTTP.Address()))
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
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// Browse opens the terminal garden browser.
func Browse(ctx context.Context, opts ...Option) error {
	// The TUI owns stdout; logs go to stderr.
	cfg, logger, err := setup(os.Stderr, opts)
	if err != nil {
		return err
	}

	_, repo, index, err := loadGarden(ctx, cfg, logger)
	if err != nil {
		return err
	}

	registry, err := dispatch.NewRegistry(dispatch.SearchModule(), dispatch.NavigationModule())
	if err != nil {
		return fmt.Errorf("init key bindings: %w", err)
	}
	dispatcher := dispatch.NewDispatcher(registry, repo, index)

	program := tea.NewProgram(tui.NewModel(dispatcher, repo), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

// MCP serves the garden to LLM clients over stdio.
func MCP(ctx context.Context, opts ...Option) error {
	// Stdout carries the protocol; logs go to stderr.
	cfg, logger, err := setup(os.Stderr, opts)
	if err != nil {
		return err
	}

	_, repo, index, err := loadGarden(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(repo, index).ServeStdio()
}
