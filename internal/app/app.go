package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
	"github.com/houtini-ai/brevo-mcp/internal/config"
	"github.com/houtini-ai/brevo-mcp/internal/metrics"
	"github.com/houtini-ai/brevo-mcp/internal/service"
	"github.com/houtini-ai/brevo-mcp/internal/tools"
)

// App is the main application.
type App struct {
	config        *config.Config
	client        *brevo.Client
	service       *service.Service
	dispatcher    *tools.Dispatcher
	mcpServer     *tools.Server
	metrics       *metrics.Metrics
	metricsServer *metrics.Server
	logger        *slog.Logger
	version       string
}

// New wires up the application from configuration.
func New(cfg *config.Config, version string) (*App, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.Logging)

	var m *metrics.Metrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path, logger.With("component", "metrics"))
	}

	clientOpts := []brevo.Option{
		brevo.WithBaseURL(cfg.Brevo.BaseURL),
		brevo.WithTimeout(cfg.Brevo.RequestTimeout),
		brevo.WithLogger(logger.With("component", "brevo_client")),
	}
	if m != nil {
		clientOpts = append(clientOpts, brevo.WithObserver(m))
	}
	client, err := brevo.New(cfg.Brevo.APIKey, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	svc := service.New(client, cfg.Search, logger.With("component", "service"))
	dispatcher := tools.NewDispatcher(svc, m, logger)
	mcpServer := tools.NewServer(dispatcher, version)

	return &App{
		config:        cfg,
		client:        client,
		service:       svc,
		dispatcher:    dispatcher,
		mcpServer:     mcpServer,
		metrics:       m,
		metricsServer: metricsServer,
		logger:        logger,
		version:       version,
	}, nil
}

// Run serves the MCP protocol on stdio until the context is canceled or
// a signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting brevo-mcp",
		"version", a.version,
		"base_url", a.config.Brevo.BaseURL,
		"metrics_enabled", a.config.Metrics.Enabled,
	)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	go func() {
		if err := a.mcpServer.ServeStdio(ctx); err != nil {
			errCh <- fmt.Errorf("mcp server: %w", err)
		}
		cancel()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		cancel()
		return a.shutdownWith(err)
	}

	return a.Shutdown(context.Background())
}

func (a *App) shutdownWith(err error) error {
	if shutdownErr := a.Shutdown(context.Background()); shutdownErr != nil {
		a.logger.Error("shutdown error", "error", shutdownErr)
	}
	return err
}

// Shutdown gracefully stops auxiliary servers.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
			return err
		}
	}
	return nil
}

// setupLogger builds the process logger. Logs go to stderr because
// stdout carries the protocol stream.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
